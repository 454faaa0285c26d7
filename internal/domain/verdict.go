package domain

// Verdict is the judging outcome of a submission. The integer values are
// stable: they appear both in the judge server response mapping and in the
// persisted verdict histograms, so they must never be renumbered.
type Verdict int

const (
	VerdictExpired               Verdict = -3
	VerdictCompileError          Verdict = -2
	VerdictWrongAnswer           Verdict = -1
	VerdictAccepted              Verdict = 0
	VerdictCPUTimeLimitExceeded  Verdict = 1
	VerdictRealTimeLimitExceeded Verdict = 2
	VerdictMemoryLimitExceeded   Verdict = 3
	VerdictRuntimeError          Verdict = 4
	VerdictSystemError           Verdict = 5
	VerdictPending               Verdict = 6
	VerdictJudging               Verdict = 7
	VerdictPartiallyAccepted     Verdict = 8
)

// RuleType selects how a problem (or contest) is scored.
type RuleType string

const (
	RuleTypeACM RuleType = "ACM"
	RuleTypeOI  RuleType = "OI"
)
