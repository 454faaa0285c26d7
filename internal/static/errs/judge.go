package errs

import "errors"

var (
	NoLanguageConfig       = errors.New("no config found for the submission language")
	MalformedPolicy        = errors.New("setting error: setting format error")
	MalformedPolicyTime    = errors.New("setting error: time format error")
	JudgeServerUnreachable = errors.New("failed to call judge server")
	NoJudgeServer          = errors.New("no available judge server")
	ScoreIndexMismatch     = errors.New("test case score table does not match result list")
	SubmissionNotFound     = errors.New("submission does not exist")
	ProblemNotFound        = errors.New("problem does not exist")
	RankRowConflict        = errors.New("contest rank row already exists")
)
