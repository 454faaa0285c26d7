package domain

import "encoding/json"

// LanguageConfig is the per-language compiler/runtime configuration block
// forwarded verbatim to the judge server.
type LanguageConfig struct {
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

// SPJLanguageConfig is the compile configuration for special-judge code.
type SPJLanguageConfig struct {
	Name    string          `json:"name"`
	Compile json.RawMessage `json:"compile"`
}

// JudgeRequest is the body of a judge call. MaxMemory is in bytes. The spj
// fields are always null at dispatch time; only precompiled checkers
// referenced by TestCaseID are used.
type JudgeRequest struct {
	LanguageConfig   json.RawMessage `json:"language_config"`
	Src              string          `json:"src"`
	MaxCPUTime       int64           `json:"max_cpu_time"`
	MaxMemory        int64           `json:"max_memory"`
	TestCaseID       string          `json:"test_case_id"`
	Output           bool            `json:"output"`
	SPJVersion       *string         `json:"spj_version"`
	SPJConfig        json.RawMessage `json:"spj_config"`
	SPJCompileConfig json.RawMessage `json:"spj_compile_config"`
	SPJSrc           *string         `json:"spj_src"`
	IOMode           map[string]any  `json:"io_mode"`
}

// SPJCompileRequest is the body of a checker pre-compile call.
type SPJCompileRequest struct {
	Src              string          `json:"src"`
	SPJVersion       string          `json:"spj_version"`
	SPJCompileConfig json.RawMessage `json:"spj_compile_config"`
}

// TestCaseResult is one per-test-case outcome as reported by the judge
// server. Result uses the Verdict integer codes.
type TestCaseResult struct {
	TestCase string  `json:"test_case"`
	Result   Verdict `json:"result"`
	CPUTime  int64   `json:"cpu_time"`
	Memory   int64   `json:"memory"`
	Score    int64   `json:"score,omitempty"`
}

// JudgeResponse is the judge server envelope: when Err is set, Data is a
// diagnostic string; otherwise Data is a list of TestCaseResult.
type JudgeResponse struct {
	Err  string          `json:"err"`
	Data json.RawMessage `json:"data"`
}

// TestCaseResults decodes the per-test-case payload of a successful response.
func (r *JudgeResponse) TestCaseResults() ([]TestCaseResult, error) {
	var results []TestCaseResult
	if err := json.Unmarshal(r.Data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Diagnostic decodes the error payload of a failed response, falling back to
// the raw bytes when it is not a JSON string.
func (r *JudgeResponse) Diagnostic() string {
	var s string
	if err := json.Unmarshal(r.Data, &s); err != nil {
		return string(r.Data)
	}
	return s
}
