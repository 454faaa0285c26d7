package domain

// ProblemStatus is the best-known outcome of one problem for one user. Score
// is only meaningful for OI problems. A missing map entry means "no prior
// submission" and is never an error.
type ProblemStatus struct {
	Status    Verdict `json:"status"`
	DisplayID string  `json:"_id"`
	Score     int64   `json:"score,omitempty"`
}

// ProblemStatusMap groups statuses by scope: practice problems and contest
// problems are tracked independently.
type ProblemStatusMap struct {
	Problems        map[string]ProblemStatus `json:"problems,omitempty"`
	ContestProblems map[string]ProblemStatus `json:"contest_problems,omitempty"`
}

// UserProfile carries the per-user aggregate counters the judge workflow
// mutates. AcceptedNumber only grows on a transition into Accepted; TotalScore
// is maintained by delta, never re-summed.
type UserProfile struct {
	UserID            int64            `db:"user_id"`
	SubmissionNumber  int64            `db:"submission_number"`
	AcceptedNumber    int64            `db:"accepted_number"`
	TotalScore        int64            `db:"total_score"`
	ACMProblemsStatus ProblemStatusMap `db:"acm_problems_status"`
	OIProblemsStatus  ProblemStatusMap `db:"oi_problems_status"`
}

// AddScore replaces lastScore with thisScore in the running total.
func (p *UserProfile) AddScore(thisScore, lastScore int64) {
	p.TotalScore = p.TotalScore - lastScore + thisScore
}

type UserProfileTable struct {
	UserID            string
	SubmissionNumber  string
	AcceptedNumber    string
	TotalScore        string
	ACMProblemsStatus string
	OIProblemsStatus  string
}

func (UserProfileTable) Name() string {
	return "user_profiles"
}

func GetUserProfileTable() UserProfileTable {
	return UserProfileTable{
		UserID:            "user_id",
		SubmissionNumber:  "submission_number",
		AcceptedNumber:    "accepted_number",
		TotalScore:        "total_score",
		ACMProblemsStatus: "acm_problems_status",
		OIProblemsStatus:  "oi_problems_status",
	}
}
