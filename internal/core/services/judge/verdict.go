package judge

import (
	"sort"
	"strconv"

	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

// aggregate is the outcome of folding per-test-case results into one verdict.
// TimeCost and MemoryCost are the worst case across test cases.
type aggregate struct {
	Verdict    domain.Verdict
	TimeCost   int64
	MemoryCost int64
	Score      int64
	Results    []domain.TestCaseResult
}

// aggregateResults sorts the results by declared test-case index (judge
// servers may return them out of order), derives the worst-case costs and
// applies the verdict rule for the problem's scoring mode. An index mismatch
// between the result list and an OI score table is a definitive aggregation
// fault, never a best-effort partial score.
func aggregateResults(problem *domain.Problem, results []domain.TestCaseResult) (*aggregate, error) {
	sort.SliceStable(results, func(i, j int) bool {
		a, _ := strconv.Atoi(results[i].TestCase)
		b, _ := strconv.Atoi(results[j].TestCase)
		return a < b
	})

	agg := &aggregate{Results: results}
	for _, r := range results {
		if r.CPUTime > agg.TimeCost {
			agg.TimeCost = r.CPUTime
		}
		if r.Memory > agg.MemoryCost {
			agg.MemoryCost = r.Memory
		}
	}

	if problem.RuleType == domain.RuleTypeOI {
		for i := range results {
			if results[i].Result != domain.VerdictAccepted {
				results[i].Score = 0
				continue
			}
			if i >= len(problem.TestCaseScore) {
				return nil, errs.ScoreIndexMismatch
			}
			results[i].Score = problem.TestCaseScore[i].Score
			agg.Score += results[i].Score
		}
	}

	failed := 0
	var firstFailing domain.Verdict
	for _, r := range results {
		if r.Result != domain.VerdictAccepted {
			if failed == 0 {
				firstFailing = r.Result
			}
			failed++
		}
	}

	switch {
	case failed == 0:
		agg.Verdict = domain.VerdictAccepted
	case problem.RuleType == domain.RuleTypeACM || failed == len(results):
		agg.Verdict = firstFailing
	default:
		agg.Verdict = domain.VerdictPartiallyAccepted
	}
	return agg, nil
}
