package domain

import "time"

// ContestStatus mirrors the stable status codes used by the contest listing.
type ContestStatus int

const (
	ContestEnded    ContestStatus = -1
	ContestUnderway ContestStatus = 0
	ContestNotStart ContestStatus = 1
)

// Contest carries the judging-relevant slice of a contest row.
type Contest struct {
	ID           int64     `db:"id"`
	RuleType     RuleType  `db:"rule_type"`
	StartTime    time.Time `db:"start_time"`
	EndTime      time.Time `db:"end_time"`
	RealTimeRank bool      `db:"real_time_rank"`
	CreatedByID  int64     `db:"created_by_id"`
	AdminIDs     []int64   `db:"admin_ids"`
}

// Status derives the live state of the contest at the given instant.
func (c *Contest) Status(now time.Time) ContestStatus {
	if now.Before(c.StartTime) {
		return ContestNotStart
	}
	if now.After(c.EndTime) {
		return ContestEnded
	}
	return ContestUnderway
}

// IsContestAdmin reports whether the user administers this contest. Admin
// submissions never touch aggregates or rank rows.
func (c *Contest) IsContestAdmin(userID int64) bool {
	if userID == c.CreatedByID {
		return true
	}
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ACMProblemInfo is the per-problem slot of an ACM rank row. Once IsAC is set
// no further field of the slot changes.
type ACMProblemInfo struct {
	IsAC        bool  `json:"is_ac"`
	ACTime      int64 `json:"ac_time"`
	ErrorNumber int   `json:"error_number"`
	IsFirstAC   bool  `json:"is_first_ac"`
}

// ACMContestRank is one (user, contest) leaderboard row under ACM rules.
// TotalTime accumulates ac_time plus the error penalty exactly once per
// solved problem.
type ACMContestRank struct {
	UserID           int64                     `db:"user_id"`
	ContestID        int64                     `db:"contest_id"`
	SubmissionNumber int64                     `db:"submission_number"`
	AcceptedNumber   int64                     `db:"accepted_number"`
	TotalTime        int64                     `db:"total_time"`
	SubmissionInfo   map[string]ACMProblemInfo `db:"submission_info"`
}

// OIContestRank is one (user, contest) leaderboard row under OI rules.
// SubmissionInfo maps problem id to the best score seen; TotalScore is
// adjusted by new-minus-previous, never re-summed.
type OIContestRank struct {
	UserID           int64            `db:"user_id"`
	ContestID        int64            `db:"contest_id"`
	SubmissionNumber int64            `db:"submission_number"`
	TotalScore       int64            `db:"total_score"`
	SubmissionInfo   map[string]int64 `db:"submission_info"`
}

type ContestRankTable struct {
	UserID           string
	ContestID        string
	SubmissionNumber string
	AcceptedNumber   string
	TotalTime        string
	TotalScore       string
	SubmissionInfo   string
}

func GetContestRankTable() ContestRankTable {
	return ContestRankTable{
		UserID:           "user_id",
		ContestID:        "contest_id",
		SubmissionNumber: "submission_number",
		AcceptedNumber:   "accepted_number",
		TotalTime:        "total_time",
		TotalScore:       "total_score",
		SubmissionInfo:   "submission_info",
	}
}
