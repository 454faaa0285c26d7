package domain

// TestCaseScore is one row of the per-test-case score table (OI problems).
type TestCaseScore struct {
	Score int64 `json:"score"`
}

// Problem carries the judging-relevant slice of a problem row. TimeLimit is in
// milliseconds, MemoryLimit in mebibytes; the judge server expects bytes.
type Problem struct {
	ID               int64             `db:"id"`
	DisplayID        string            `db:"display_id"`
	ContestID        *int64            `db:"contest_id"`
	RuleType         RuleType          `db:"rule_type"`
	TimeLimit        int64             `db:"time_limit"`
	MemoryLimit      int64             `db:"memory_limit"`
	TestCaseID       string            `db:"test_case_id"`
	TestCaseScore    []TestCaseScore   `db:"test_case_score"`
	Template         map[string]string `db:"template"`
	PolicyRaw        string            `db:"policy"`
	IOMode           map[string]any    `db:"io_mode"`
	SubmissionNumber int64             `db:"submission_number"`
	AcceptedNumber   int64             `db:"accepted_number"`
	StatisticInfo    map[string]int64  `db:"statistic_info"`
}

// MemoryLimitBytes converts the stored limit for the judge server payload.
func (p *Problem) MemoryLimitBytes() int64 {
	return p.MemoryLimit * 1024 * 1024
}

type ProblemTable struct {
	ID               string
	DisplayID        string
	ContestID        string
	RuleType         string
	TimeLimit        string
	MemoryLimit      string
	TestCaseID       string
	TestCaseScore    string
	Template         string
	Policy           string
	IOMode           string
	SubmissionNumber string
	AcceptedNumber   string
	StatisticInfo    string
}

func (ProblemTable) Name() string {
	return "problems"
}

func GetProblemTable() ProblemTable {
	return ProblemTable{
		ID:               "id",
		DisplayID:        "display_id",
		ContestID:        "contest_id",
		RuleType:         "rule_type",
		TimeLimit:        "time_limit",
		MemoryLimit:      "memory_limit",
		TestCaseID:       "test_case_id",
		TestCaseScore:    "test_case_score",
		Template:         "template",
		Policy:           "policy",
		IOMode:           "io_mode",
		SubmissionNumber: "submission_number",
		AcceptedNumber:   "accepted_number",
		StatisticInfo:    "statistic_info",
	}
}
