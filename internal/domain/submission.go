package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StatisticInfo holds the derived metrics of a judged submission. TimeCost and
// MemoryCost are the worst case across test cases, not the sum.
type StatisticInfo struct {
	TimeCost   int64  `json:"time_cost,omitempty"`
	MemoryCost int64  `json:"memory_cost,omitempty"`
	Score      int64  `json:"score,omitempty"`
	ErrInfo    string `json:"err_info,omitempty"`
}

// Submission represents a code submission. The API layer creates it in
// Pending state; every later mutation belongs to the judge workflow.
type Submission struct {
	ID            uuid.UUID       `db:"id"`
	UserID        int64           `db:"user_id"`
	Username      string          `db:"username"`
	ProblemID     int64           `db:"problem_id"`
	ContestID     *int64          `db:"contest_id"`
	Code          string          `db:"code"`
	Language      string          `db:"language"`
	Result        Verdict         `db:"result"`
	Info          json.RawMessage `db:"info"`
	StatisticInfo StatisticInfo   `db:"statistic_info"`
	CreateTime    time.Time       `db:"create_time"`
}

// HasPriorVerdict reports whether the submission was judged before, which
// routes a fresh judging through the rejudge (delta-correction) stats path.
func (s *Submission) HasPriorVerdict() bool {
	return len(s.Info) > 0
}

type SubmissionTable struct {
	ID            string
	UserID        string
	Username      string
	ProblemID     string
	ContestID     string
	Code          string
	Language      string
	Result        string
	Info          string
	StatisticInfo string
	CreateTime    string
}

func (SubmissionTable) Name() string {
	return "submissions"
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:            "id",
		UserID:        "user_id",
		Username:      "username",
		ProblemID:     "problem_id",
		ContestID:     "contest_id",
		Code:          "code",
		Language:      "language",
		Result:        "result",
		Info:          "info",
		StatisticInfo: "statistic_info",
		CreateTime:    "create_time",
	}
}
