package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/ojcore.net/internal/config"
	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/core/services/admission"
	"gitlab.com/ojcore.net/internal/core/services/stats"
	"gitlab.com/ojcore.net/internal/domain"
)

var _ IJudgeService = &JudgeService{}

// JudgeServiceParams bundles the workflow's collaborators.
type JudgeServiceParams struct {
	JudgeCfg       *config.JudgeConfig
	Languages      *config.LanguageSet
	SubmissionRepo secondary.SubmissionRepository
	ProblemRepo    secondary.ProblemRepository
	ContestRepo    secondary.ContestRepository
	Admission      admission.IAdmissionService
	ExecClient     secondary.ExecClient
	Queue          secondary.PendingQueue
	Stats          stats.IStatsService
	Logger         primary.Logger
}

// JudgeService implements the submission judging workflow
type JudgeService struct {
	cfg            *config.JudgeConfig
	loc            *time.Location
	languages      map[string]domain.LanguageConfig
	submissionRepo secondary.SubmissionRepository
	problemRepo    secondary.ProblemRepository
	contestRepo    secondary.ContestRepository
	admission      admission.IAdmissionService
	execClient     secondary.ExecClient
	queue          secondary.PendingQueue
	stats          stats.IStatsService
	logger         primary.Logger
	now            func() time.Time
}

// NewJudgeService creates a new judge service
func NewJudgeService(p JudgeServiceParams) (*JudgeService, error) {
	loc, err := time.LoadLocation(p.JudgeCfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", p.JudgeCfg.Timezone, err)
	}
	languages := make(map[string]domain.LanguageConfig, len(p.Languages.Languages))
	for _, lang := range p.Languages.Languages {
		languages[lang.Name] = lang
	}
	return &JudgeService{
		cfg:            p.JudgeCfg,
		loc:            loc,
		languages:      languages,
		submissionRepo: p.SubmissionRepo,
		problemRepo:    p.ProblemRepo,
		contestRepo:    p.ContestRepo,
		admission:      p.Admission,
		execClient:     p.ExecClient,
		queue:          p.Queue,
		stats:          p.Stats,
		logger:         p.Logger,
		now:            time.Now,
	}, nil
}

// Judge runs the full workflow for one submission: policy gates, worker
// admission, the judge server call, verdict interpretation and stats
// propagation, then drains one pending job.
func (s *JudgeService) Judge(ctx context.Context, submissionID uuid.UUID, problemID int64) error {
	sub, err := s.submissionRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", submissionID, err)
	}

	var problem *domain.Problem
	var contest *domain.Contest
	if sub.ContestID != nil {
		problem, err = s.problemRepo.GetContestProblem(ctx, problemID, *sub.ContestID)
		if err == nil {
			contest, err = s.contestRepo.GetContest(ctx, *sub.ContestID)
		}
	} else {
		problem, err = s.problemRepo.GetProblem(ctx, problemID)
	}
	if err != nil {
		return fmt.Errorf("failed to load problem %d: %w", problemID, err)
	}

	var lastResult *domain.Verdict
	if sub.HasPriorVerdict() {
		prev := sub.Result
		lastResult = &prev
	}

	langCfg, ok := s.languages[sub.Language]
	if !ok {
		s.logger.Error("No language config for submission", "submissionId", sub.ID, "language", sub.Language)
		return s.reject(ctx, sub, &rejection{
			Result:  domain.VerdictSystemError,
			ErrInfo: fmt.Sprintf("Setting error: no config for language %s", sub.Language),
		})
	}

	var policy *domain.SubmitPolicy
	hasPolicy := problem.PolicyRaw != ""
	if hasPolicy {
		policy, err = domain.ParseSubmitPolicy(problem.PolicyRaw)
		if err != nil {
			s.logger.Error("Malformed submit policy", "problemId", problem.ID, "error", err)
			return s.reject(ctx, sub, &rejection{
				Result:  domain.VerdictSystemError,
				ErrInfo: "Setting error: Setting format error",
			})
		}
	}

	if rej := checkDeadline(policy, sub.Username, s.now().In(s.loc), s.loc); rej != nil {
		return s.reject(ctx, sub, rej)
	}

	if sub.Language == "Java" {
		if rej := checkImports(sub.Code, policy, hasPolicy); rej != nil {
			return s.reject(ctx, sub, rej)
		}
	}

	code := sub.Code
	if template, ok := problem.Template[sub.Language]; ok {
		code = applyTemplate(template, code)
	}

	req := &domain.JudgeRequest{
		LanguageConfig: langCfg.Config,
		Src:            code,
		MaxCPUTime:     problem.TimeLimit,
		MaxMemory:      problem.MemoryLimitBytes(),
		TestCaseID:     problem.TestCaseID,
		Output:         true,
		IOMode:         problem.IOMode,
	}

	server, err := s.admission.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("admission failed for submission %s: %w", sub.ID, err)
	}
	if server == nil {
		// saturated pool: park the job, somebody's completion will drain it
		task := secondary.PendingTask{SubmissionID: sub.ID, ProblemID: problem.ID}
		if err := s.queue.Enqueue(ctx, task); err != nil {
			return fmt.Errorf("failed to enqueue submission %s: %w", sub.ID, err)
		}
		s.logger.Info("No judge server available, submission queued", "submissionId", sub.ID)
		return nil
	}

	if err := s.submissionRepo.UpdateResult(ctx, sub.ID, domain.VerdictJudging); err != nil {
		s.logger.Error("Failed to mark submission judging", "submissionId", sub.ID, "error", err)
	}
	resp, callErr := s.execClient.Judge(ctx, server.ServiceURL, req)
	if err := s.admission.Release(ctx, server.ID); err != nil {
		s.logger.Error("Failed to release judge server", "serverId", server.ID, "error", err)
	}

	// a dispatch happened, so one slot was freed: always try the backlog once
	defer s.drainOne()

	if callErr != nil {
		s.logger.Error("Judge server call failed", "submissionId", sub.ID, "serverId", server.ID, "error", callErr)
		if err := s.submissionRepo.UpdateResult(ctx, sub.ID, domain.VerdictSystemError); err != nil {
			return err
		}
		return nil
	}

	if resp.Err != "" {
		sub.Result = domain.VerdictCompileError
		sub.StatisticInfo.ErrInfo = resp.Diagnostic()
		sub.StatisticInfo.Score = 0
	} else {
		results, err := resp.TestCaseResults()
		if err != nil {
			s.logger.Error("Malformed judge server response", "submissionId", sub.ID, "error", err)
			return s.reject(ctx, sub, &rejection{
				Result:  domain.VerdictSystemError,
				ErrInfo: "Judge server returned a malformed response",
			})
		}
		agg, aggErr := aggregateResults(problem, results)
		if aggErr != nil {
			s.logger.Error("Score aggregation failed", "problemId", problem.ID, "error", aggErr)
			return s.reject(ctx, sub, &rejection{
				Result:  domain.VerdictSystemError,
				ErrInfo: "Setting error: test case score table mismatch",
			})
		}
		sub.Result = agg.Verdict
		sub.StatisticInfo.TimeCost = agg.TimeCost
		sub.StatisticInfo.MemoryCost = agg.MemoryCost
		sub.StatisticInfo.Score = agg.Score
		if sub.Info, err = json.Marshal(struct {
			Err  *string                 `json:"err"`
			Data []domain.TestCaseResult `json:"data"`
		}{nil, agg.Results}); err != nil {
			return fmt.Errorf("failed to encode judge info: %w", err)
		}
	}

	if err := s.submissionRepo.SaveVerdict(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist verdict for %s: %w", sub.ID, err)
	}

	return s.propagate(ctx, sub, contest, lastResult)
}

// reject persists a terminal gate verdict; no aggregates are touched.
func (s *JudgeService) reject(ctx context.Context, sub *domain.Submission, rej *rejection) error {
	sub.Result = rej.Result
	sub.StatisticInfo = domain.StatisticInfo{ErrInfo: rej.ErrInfo}
	if err := s.submissionRepo.SaveVerdict(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist rejection for %s: %w", sub.ID, err)
	}
	return nil
}

// propagate pushes the persisted verdict into aggregate state. Contest
// submissions outside a live contest, or by a contest admin, stop here.
func (s *JudgeService) propagate(ctx context.Context, sub *domain.Submission, contest *domain.Contest, lastResult *domain.Verdict) error {
	if sub.ContestID != nil {
		if contest.Status(s.now()) != domain.ContestUnderway || contest.IsContestAdmin(sub.UserID) {
			s.logger.Info("Contest debug mode, skipping stats", "contestId", contest.ID, "submissionId", sub.ID)
			return nil
		}
		return s.stats.UpdateContest(ctx, sub, contest)
	}
	if lastResult != nil {
		return s.stats.UpdateProblemStatusRejudge(ctx, sub, *lastResult)
	}
	return s.stats.UpdateProblemStatus(ctx, sub)
}

// drainOne pops at most one waiting job and re-enters the workflow
// asynchronously. Best effort: a lost job is recoverable by rejudge.
func (s *JudgeService) drainOne() {
	ctx := context.Background()
	task, ok, err := s.queue.Pop(ctx)
	if err != nil {
		s.logger.Error("Failed to pop pending judge task", "error", err)
		return
	}
	if !ok {
		return
	}
	s.logger.Info("Draining pending judge task", "submissionId", task.SubmissionID)
	go func() {
		if err := s.Judge(ctx, task.SubmissionID, task.ProblemID); err != nil {
			s.logger.Error("Drained judge task failed", "submissionId", task.SubmissionID, "error", err)
		}
	}()
}
