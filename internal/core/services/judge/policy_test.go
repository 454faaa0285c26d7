package judge

import (
	"strings"
	"testing"
	"time"

	"gitlab.com/ojcore.net/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestCheckDeadline(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, loc)

	tests := []struct {
		name       string
		policy     *domain.SubmitPolicy
		username   string
		wantNil    bool
		wantResult domain.Verdict
		wantInfo   string
	}{
		{
			name:    "no policy",
			policy:  nil,
			wantNil: true,
		},
		{
			name:    "no deadline configured",
			policy:  &domain.SubmitPolicy{},
			wantNil: true,
		},
		{
			name:    "before deadline",
			policy:  &domain.SubmitPolicy{ExpireTime: strPtr("2024-06-10T23:59:59")},
			wantNil: true,
		},
		{
			name:       "after deadline",
			policy:     &domain.SubmitPolicy{ExpireTime: strPtr("2024-06-09T23:59:59")},
			wantResult: domain.VerdictExpired,
			wantInfo:   "Submission deadline has passed.",
		},
		{
			name: "late user within extension",
			policy: &domain.SubmitPolicy{
				ExpireTime:  strPtr("2024-06-09T23:59:59"),
				LateAllowed: []string{"alice"},
				LateUntil:   strPtr("2024-06-12T23:59:59"),
			},
			username: "alice",
			wantNil:  true,
		},
		{
			name: "late user past extension",
			policy: &domain.SubmitPolicy{
				ExpireTime:  strPtr("2024-06-01T23:59:59"),
				LateAllowed: []string{"alice"},
				LateUntil:   strPtr("2024-06-05T23:59:59"),
			},
			username:   "alice",
			wantResult: domain.VerdictExpired,
			wantInfo:   "Late submission deadline has passed.",
		},
		{
			name: "non-late user ignores extension",
			policy: &domain.SubmitPolicy{
				ExpireTime:  strPtr("2024-06-09T23:59:59"),
				LateAllowed: []string{"alice"},
				LateUntil:   strPtr("2024-06-12T23:59:59"),
			},
			username:   "bob",
			wantResult: domain.VerdictExpired,
			wantInfo:   "Submission deadline has passed.",
		},
		{
			name: "late user without late deadline falls back to primary",
			policy: &domain.SubmitPolicy{
				ExpireTime:  strPtr("2024-06-09T23:59:59"),
				LateAllowed: []string{"alice"},
			},
			username:   "alice",
			wantResult: domain.VerdictExpired,
			wantInfo:   "Submission deadline has passed.",
		},
		{
			name:       "malformed deadline is a config fault",
			policy:     &domain.SubmitPolicy{ExpireTime: strPtr("June 9th")},
			wantResult: domain.VerdictSystemError,
			wantInfo:   "Setting error: Time format error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rej := checkDeadline(tt.policy, tt.username, now, loc)
			if tt.wantNil {
				if rej != nil {
					t.Fatalf("checkDeadline() = %+v, want nil", rej)
				}
				return
			}
			if rej == nil {
				t.Fatal("checkDeadline() = nil, want rejection")
			}
			if rej.Result != tt.wantResult {
				t.Errorf("result = %d, want %d", rej.Result, tt.wantResult)
			}
			if rej.ErrInfo != tt.wantInfo {
				t.Errorf("errInfo = %q, want %q", rej.ErrInfo, tt.wantInfo)
			}
		})
	}
}

func TestCheckDeadlineZoneSensitivity(t *testing.T) {
	t.Parallel()

	// the same wall-clock deadline flips outcome with the reference zone
	policy := &domain.SubmitPolicy{ExpireTime: strPtr("2024-06-10T20:00:00")}
	now := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)

	if rej := checkDeadline(policy, "u", now.In(time.UTC), time.UTC); rej != nil {
		t.Errorf("UTC reference: got rejection %+v, want none", rej)
	}
	east := time.FixedZone("UTC+8", 8*3600)
	if rej := checkDeadline(policy, "u", now.In(east), east); rej == nil {
		t.Error("UTC+8 reference: got nil, want expired (22:00 local is past 20:00)")
	}
}

func TestCheckImports(t *testing.T) {
	t.Parallel()

	allowUtil := &domain.SubmitPolicy{AllowedImports: []string{"java.util.*", "java.io.File"}}

	tests := []struct {
		name      string
		code      string
		policy    *domain.SubmitPolicy
		hasPolicy bool
		wantNil   bool
		wantInfo  string
	}{
		{
			name:      "allowed package prefix",
			code:      "import java.util.Scanner;\nclass Main {}",
			policy:    allowUtil,
			hasPolicy: true,
			wantNil:   true,
		},
		{
			name:      "allowed exact match",
			code:      "import java.io.File;\nclass Main {}",
			policy:    allowUtil,
			hasPolicy: true,
			wantNil:   true,
		},
		{
			name:      "disallowed import",
			code:      "import java.net.Socket;\nclass Main {}",
			policy:    allowUtil,
			hasPolicy: true,
			wantInfo:  "Import 'java.net.Socket' is not allowed.",
		},
		{
			name:     "no policy rejects every import",
			code:     "import java.util.Scanner;\nclass Main {}",
			wantInfo: "Import 'java.util.Scanner' is not allowed (all imports disabled).",
		},
		{
			name:      "policy without allow-list rejects every import",
			code:      "import java.util.Scanner;\nclass Main {}",
			policy:    &domain.SubmitPolicy{ExpireTime: strPtr("2030-01-01T00:00:00")},
			hasPolicy: true,
			wantInfo:  "Import 'java.util.Scanner' is not allowed (all imports disabled).",
		},
		{
			name:      "bare import statement",
			code:      "import\nclass Main {}",
			policy:    allowUtil,
			hasPolicy: true,
			wantInfo:  "Invalid import statement.",
		},
		{
			name:      "wildcard allows everything",
			code:      "import java.net.Socket;\nclass Main {}",
			policy:    &domain.SubmitPolicy{AllowedImports: []string{"*"}},
			hasPolicy: true,
			wantNil:   true,
		},
		{
			name:      "no imports at all",
			code:      "class Main { int importantValue = 1; }",
			policy:    allowUtil,
			hasPolicy: true,
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rej := checkImports(tt.code, tt.policy, tt.hasPolicy)
			if tt.wantNil {
				if rej != nil {
					t.Fatalf("checkImports() = %+v, want nil", rej)
				}
				return
			}
			if rej == nil {
				t.Fatal("checkImports() = nil, want rejection")
			}
			if rej.Result != domain.VerdictCompileError {
				t.Errorf("result = %d, want CompileError", rej.Result)
			}
			if rej.ErrInfo != tt.wantInfo {
				t.Errorf("errInfo = %q, want %q", rej.ErrInfo, tt.wantInfo)
			}
		})
	}
}

func TestCheckQualifiedNames(t *testing.T) {
	t.Parallel()

	allowUtil := &domain.SubmitPolicy{AllowedImports: []string{"java.util.*"}}

	tests := []struct {
		name      string
		code      string
		policy    *domain.SubmitPolicy
		hasPolicy bool
		wantNil   bool
		wantInfo  string
	}{
		{
			name:      "qualified new of allowed class",
			code:      "class Main { Object s = new java.util.HashSet(); }",
			policy:    allowUtil,
			hasPolicy: true,
			wantNil:   true,
		},
		{
			name:      "qualified new of disallowed class",
			code:      "class Main {\n Object f = new java.io.FileReader(\"x\"); \n}",
			policy:    allowUtil,
			hasPolicy: true,
			wantInfo:  "Fully qualified class 'java.io.FileReader' is not allowed (line 2).",
		},
		{
			name:     "qualified call with no policy",
			code:     "class Main {\n void f() { java.lang.Runtime.getRuntime(); }\n}",
			wantInfo: "Fully qualified class 'java.lang.Runtime.getRuntime' is not allowed (all imports disabled, line 2).",
		},
		{
			name:      "comment lines are skipped",
			code:      "class Main {\n// new java.io.FileReader(\"x\")\n/* java.net.Socket */\n * java.net.Socket usage\n}",
			policy:    allowUtil,
			hasPolicy: true,
			wantNil:   true,
		},
		{
			name:      "non-java qualified names ignored",
			code:      "class Main { Object o = new com.example.Helper(); }",
			policy:    allowUtil,
			hasPolicy: true,
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rej := checkImports(tt.code, tt.policy, tt.hasPolicy)
			if tt.wantNil {
				if rej != nil {
					t.Fatalf("got rejection %+v, want nil", rej)
				}
				return
			}
			if rej == nil {
				t.Fatal("got nil, want rejection")
			}
			if rej.ErrInfo != tt.wantInfo {
				t.Errorf("errInfo = %q, want %q", rej.ErrInfo, tt.wantInfo)
			}
		})
	}
}

func TestApplyTemplate(t *testing.T) {
	t.Parallel()

	template := strings.Join([]string{
		"//PREPEND BEGIN",
		"#include <stdio.h>",
		"//PREPEND END",
		"//TEMPLATE BEGIN",
		"int solve(int a, int b);",
		"//TEMPLATE END",
		"//APPEND BEGIN",
		"int main() { return 0; }",
		"//APPEND END",
	}, "\n")

	got := applyTemplate(template, "int solve(int a, int b) { return a + b; }")
	want := "#include <stdio.h>\n\nint solve(int a, int b) { return a + b; }\nint main() { return 0; }\n"
	if got != want {
		t.Errorf("applyTemplate() = %q, want %q", got, want)
	}
}

func TestApplyTemplateNoMarkers(t *testing.T) {
	t.Parallel()

	got := applyTemplate("just a comment", "code")
	if got != "\ncode\n" {
		t.Errorf("applyTemplate() = %q, want code wrapped in newlines only", got)
	}
}
