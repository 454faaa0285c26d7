package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

// acmPenaltySeconds is the per-wrong-attempt penalty under ACM rules.
const acmPenaltySeconds = 20 * 60

var _ IStatsService = &StatsService{}

// StatsService implements the stats and leaderboard updater
type StatsService struct {
	store     secondary.StatsStore
	rankCache secondary.RankCache
	logger    primary.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(store secondary.StatsStore, rankCache secondary.RankCache, logger primary.Logger) *StatsService {
	return &StatsService{
		store:     store,
		rankCache: rankCache,
		logger:    logger,
	}
}

func verdictKey(v domain.Verdict) string {
	return strconv.Itoa(int(v))
}

func problemKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// UpdateProblemStatus applies a first-time verdict to global aggregates.
func (s *StatsService) UpdateProblemStatus(ctx context.Context, sub *domain.Submission) error {
	return s.store.InTx(ctx, func(ops secondary.StatsOps) error {
		problem, err := ops.GetProblemForUpdate(ctx, sub.ProblemID, sub.ContestID)
		if err != nil {
			return err
		}
		problem.SubmissionNumber++
		if sub.Result == domain.VerdictAccepted {
			problem.AcceptedNumber++
		}
		if problem.StatisticInfo == nil {
			problem.StatisticInfo = map[string]int64{}
		}
		problem.StatisticInfo[verdictKey(sub.Result)]++
		if err := ops.SaveProblemStats(ctx, problem); err != nil {
			return err
		}

		profile, err := ops.GetProfileForUpdate(ctx, sub.UserID)
		if err != nil {
			return err
		}
		profile.SubmissionNumber++
		pid := problemKey(problem.ID)

		if problem.RuleType == domain.RuleTypeACM {
			statuses := profile.ACMProblemsStatus.Problems
			if statuses == nil {
				statuses = map[string]domain.ProblemStatus{}
			}
			entry, ok := statuses[pid]
			switch {
			case !ok:
				statuses[pid] = domain.ProblemStatus{Status: sub.Result, DisplayID: problem.DisplayID}
				if sub.Result == domain.VerdictAccepted {
					profile.AcceptedNumber++
				}
			case entry.Status != domain.VerdictAccepted:
				entry.Status = sub.Result
				statuses[pid] = entry
				if sub.Result == domain.VerdictAccepted {
					profile.AcceptedNumber++
				}
			}
			profile.ACMProblemsStatus.Problems = statuses
		} else {
			statuses := profile.OIProblemsStatus.Problems
			if statuses == nil {
				statuses = map[string]domain.ProblemStatus{}
			}
			score := sub.StatisticInfo.Score
			entry, ok := statuses[pid]
			switch {
			case !ok:
				profile.AddScore(score, 0)
				statuses[pid] = domain.ProblemStatus{Status: sub.Result, DisplayID: problem.DisplayID, Score: score}
				if sub.Result == domain.VerdictAccepted {
					profile.AcceptedNumber++
				}
			case entry.Status != domain.VerdictAccepted:
				profile.AddScore(score, entry.Score)
				entry.Score = score
				entry.Status = sub.Result
				statuses[pid] = entry
				if sub.Result == domain.VerdictAccepted {
					profile.AcceptedNumber++
				}
			}
			profile.OIProblemsStatus.Problems = statuses
		}

		return ops.SaveProfile(ctx, profile)
	})
}

// UpdateProblemStatusRejudge corrects global aggregates after a rejudge: the
// histogram moves one count from the old verdict to the new one, and the
// accepted counter only flips up on a transition into accepted.
func (s *StatsService) UpdateProblemStatusRejudge(ctx context.Context, sub *domain.Submission, lastResult domain.Verdict) error {
	return s.store.InTx(ctx, func(ops secondary.StatsOps) error {
		problem, err := ops.GetProblemForUpdate(ctx, sub.ProblemID, sub.ContestID)
		if err != nil {
			return err
		}
		if lastResult != domain.VerdictAccepted && sub.Result == domain.VerdictAccepted {
			problem.AcceptedNumber++
		}
		if problem.StatisticInfo == nil {
			problem.StatisticInfo = map[string]int64{}
		}
		problem.StatisticInfo[verdictKey(lastResult)]--
		problem.StatisticInfo[verdictKey(sub.Result)]++
		if err := ops.SaveProblemStats(ctx, problem); err != nil {
			return err
		}

		profile, err := ops.GetProfileForUpdate(ctx, sub.UserID)
		if err != nil {
			return err
		}
		pid := problemKey(problem.ID)

		if problem.RuleType == domain.RuleTypeACM {
			statuses := profile.ACMProblemsStatus.Problems
			if statuses == nil {
				statuses = map[string]domain.ProblemStatus{}
			}
			// a missing entry means the original judging never recorded one;
			// treat it as no prior submission rather than a fault
			entry := statuses[pid]
			if entry.Status != domain.VerdictAccepted {
				entry.Status = sub.Result
				entry.DisplayID = problem.DisplayID
				statuses[pid] = entry
				if sub.Result == domain.VerdictAccepted {
					profile.AcceptedNumber++
				}
			}
			profile.ACMProblemsStatus.Problems = statuses
		} else {
			statuses := profile.OIProblemsStatus.Problems
			if statuses == nil {
				statuses = map[string]domain.ProblemStatus{}
			}
			score := sub.StatisticInfo.Score
			entry := statuses[pid]
			if entry.Status != domain.VerdictAccepted {
				profile.AddScore(score, entry.Score)
				entry.Score = score
				entry.Status = sub.Result
				entry.DisplayID = problem.DisplayID
				statuses[pid] = entry
				if sub.Result == domain.VerdictAccepted {
					profile.AcceptedNumber++
				}
			}
			profile.OIProblemsStatus.Problems = statuses
		}

		return ops.SaveProfile(ctx, profile)
	})
}

// UpdateContest applies the verdict to contest-scoped aggregates and the rank
// row. Runs as one transaction so the status maps, problem counters and rank
// never drift apart.
func (s *StatsService) UpdateContest(ctx context.Context, sub *domain.Submission, contest *domain.Contest) error {
	if contest.RuleType == domain.RuleTypeOI || contest.RealTimeRank {
		if err := s.rankCache.InvalidateContestRank(ctx, contest.ID); err != nil {
			s.logger.Warn("Failed to invalidate contest rank cache", "contestId", contest.ID, "error", err)
		}
	}

	return s.store.InTx(ctx, func(ops secondary.StatsOps) error {
		problem, solvedBefore, err := s.updateContestProblemStatus(ctx, ops, sub, contest)
		if err != nil {
			return err
		}
		if contest.RuleType == domain.RuleTypeACM {
			return s.updateACMRank(ctx, ops, sub, contest, problem, solvedBefore)
		}
		return s.updateOIRank(ctx, ops, sub, contest)
	})
}

// updateContestProblemStatus mirrors the global first-submission shape but
// writes into the contest-scoped status maps and the contest problem row.
// Under ACM rules a problem already accepted by this user is a no-op for
// ranking purposes: no counter changes at all.
func (s *StatsService) updateContestProblemStatus(ctx context.Context, ops secondary.StatsOps, sub *domain.Submission, contest *domain.Contest) (*domain.Problem, bool, error) {
	profile, err := ops.GetProfileForUpdate(ctx, sub.UserID)
	if err != nil {
		return nil, false, err
	}
	pid := problemKey(sub.ProblemID)

	problem, err := ops.GetProblemForUpdate(ctx, sub.ProblemID, sub.ContestID)
	if err != nil {
		return nil, false, err
	}

	if contest.RuleType == domain.RuleTypeACM {
		statuses := profile.ACMProblemsStatus.ContestProblems
		if statuses == nil {
			statuses = map[string]domain.ProblemStatus{}
		}
		entry, ok := statuses[pid]
		switch {
		case !ok:
			statuses[pid] = domain.ProblemStatus{Status: sub.Result, DisplayID: problem.DisplayID}
		case entry.Status != domain.VerdictAccepted:
			entry.Status = sub.Result
			statuses[pid] = entry
		default:
			// already solved: skip every counter for this submission
			return problem, true, nil
		}
		profile.ACMProblemsStatus.ContestProblems = statuses
	} else {
		statuses := profile.OIProblemsStatus.ContestProblems
		if statuses == nil {
			statuses = map[string]domain.ProblemStatus{}
		}
		score := sub.StatisticInfo.Score
		entry, ok := statuses[pid]
		if !ok {
			entry = domain.ProblemStatus{DisplayID: problem.DisplayID}
		}
		entry.Score = score
		entry.Status = sub.Result
		statuses[pid] = entry
		profile.OIProblemsStatus.ContestProblems = statuses
	}
	if err := ops.SaveProfile(ctx, profile); err != nil {
		return nil, false, err
	}

	if problem.StatisticInfo == nil {
		problem.StatisticInfo = map[string]int64{}
	}
	problem.StatisticInfo[verdictKey(sub.Result)]++
	problem.SubmissionNumber++
	if sub.Result == domain.VerdictAccepted {
		problem.AcceptedNumber++
	}
	if err := ops.SaveProblemStats(ctx, problem); err != nil {
		return nil, false, err
	}
	return problem, false, nil
}

// updateACMRank maintains the per-problem slot of the ACM rank row. Once a
// problem is accepted by this user all further counter mutation for it
// short-circuits, so the penalized time is computed exactly once.
func (s *StatsService) updateACMRank(ctx context.Context, ops secondary.StatsOps, sub *domain.Submission, contest *domain.Contest, problem *domain.Problem, solvedBefore bool) error {
	rank, err := ops.GetACMRankForUpdate(ctx, sub.UserID, contest.ID)
	if err != nil {
		return err
	}
	if rank == nil {
		if err := ops.CreateACMRank(ctx, sub.UserID, contest.ID); err != nil && !errors.Is(err, errs.RankRowConflict) {
			return err
		}
		if rank, err = ops.GetACMRankForUpdate(ctx, sub.UserID, contest.ID); err != nil {
			return err
		}
		if rank == nil {
			return fmt.Errorf("acm rank row missing after create for user %d contest %d", sub.UserID, contest.ID)
		}
	}

	if rank.SubmissionInfo == nil {
		rank.SubmissionInfo = map[string]domain.ACMProblemInfo{}
	}
	pid := problemKey(sub.ProblemID)
	info := rank.SubmissionInfo[pid]
	if solvedBefore || info.IsAC {
		return nil
	}

	rank.SubmissionNumber++
	switch {
	case sub.Result == domain.VerdictAccepted:
		rank.AcceptedNumber++
		info.IsAC = true
		info.ACTime = int64(sub.CreateTime.Sub(contest.StartTime).Seconds())
		rank.TotalTime += info.ACTime + int64(info.ErrorNumber)*acmPenaltySeconds
		if problem.AcceptedNumber == 1 {
			info.IsFirstAC = true
		}
	case sub.Result != domain.VerdictCompileError:
		info.ErrorNumber++
	}
	rank.SubmissionInfo[pid] = info
	return ops.SaveACMRank(ctx, rank)
}

// updateOIRank tracks the best score per problem; the total is adjusted by
// new minus previous, never re-summed from scratch.
func (s *StatsService) updateOIRank(ctx context.Context, ops secondary.StatsOps, sub *domain.Submission, contest *domain.Contest) error {
	rank, err := ops.GetOIRankForUpdate(ctx, sub.UserID, contest.ID)
	if err != nil {
		return err
	}
	if rank == nil {
		if err := ops.CreateOIRank(ctx, sub.UserID, contest.ID); err != nil && !errors.Is(err, errs.RankRowConflict) {
			return err
		}
		if rank, err = ops.GetOIRankForUpdate(ctx, sub.UserID, contest.ID); err != nil {
			return err
		}
		if rank == nil {
			return fmt.Errorf("oi rank row missing after create for user %d contest %d", sub.UserID, contest.ID)
		}
	}

	if rank.SubmissionInfo == nil {
		rank.SubmissionInfo = map[string]int64{}
	}
	pid := problemKey(sub.ProblemID)
	score := sub.StatisticInfo.Score
	if last, ok := rank.SubmissionInfo[pid]; ok {
		rank.TotalScore = rank.TotalScore - last + score
	} else {
		rank.TotalScore += score
	}
	rank.SubmissionInfo[pid] = score
	return ops.SaveOIRank(ctx, rank)
}
