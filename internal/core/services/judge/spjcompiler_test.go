package judge

import (
	"context"
	"encoding/json"
	"testing"

	"gitlab.com/ojcore.net/internal/config"
	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

func newSPJCompiler(adm *fakeAdmission, client *fakeExecClient) *SPJCompiler {
	languages := &config.LanguageSet{SPJLanguages: []domain.SPJLanguageConfig{
		{Name: "C", Compile: json.RawMessage(`{"command":"gcc"}`)},
	}}
	return NewSPJCompiler(languages, adm, client, nopLogger{})
}

func TestSPJCompileSuccess(t *testing.T) {
	t.Parallel()

	adm := &fakeAdmission{server: &domain.JudgeServer{ID: 7, ServiceURL: "http://worker-1:8080"}}
	client := &fakeExecClient{resp: &domain.JudgeResponse{}}
	c := newSPJCompiler(adm, client)

	if msg := c.Compile(context.Background(), "int main(){}", "v1", "C"); msg != "" {
		t.Fatalf("Compile() = %q, want empty", msg)
	}
	if client.spjReqs != 1 {
		t.Errorf("compile calls = %d, want 1", client.spjReqs)
	}
	if len(adm.released) != 1 || adm.released[0] != 7 {
		t.Errorf("released = %v, want [7]", adm.released)
	}
}

func TestSPJCompileFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		language string
		adm      *fakeAdmission
		client   *fakeExecClient
		want     string
	}{
		{
			name:     "unknown language",
			language: "Rust",
			adm:      &fakeAdmission{server: &domain.JudgeServer{ID: 7}},
			client:   &fakeExecClient{resp: &domain.JudgeResponse{}},
			want:     "No spj compile config for language Rust",
		},
		{
			name:     "saturated pool",
			language: "C",
			adm:      &fakeAdmission{},
			client:   &fakeExecClient{resp: &domain.JudgeResponse{}},
			want:     "No available judge_server",
		},
		{
			name:     "transport failure",
			language: "C",
			adm:      &fakeAdmission{server: &domain.JudgeServer{ID: 7}},
			client:   &fakeExecClient{err: errs.JudgeServerUnreachable},
			want:     "Failed to call judge server",
		},
		{
			name:     "worker diagnostic",
			language: "C",
			adm:      &fakeAdmission{server: &domain.JudgeServer{ID: 7}},
			client: &fakeExecClient{resp: &domain.JudgeResponse{
				Err:  "CompileError",
				Data: json.RawMessage(`"spj.c:1: error"`),
			}},
			want: "spj.c:1: error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newSPJCompiler(tt.adm, tt.client)
			if got := c.Compile(context.Background(), "src", "v1", tt.language); got != tt.want {
				t.Errorf("Compile() = %q, want %q", got, tt.want)
			}
			// a granted slot must come back even when the call fails
			if tt.adm.server != nil && tt.adm.acquires > 0 && len(tt.adm.released) != tt.adm.acquires {
				t.Errorf("released %d of %d acquired slots", len(tt.adm.released), tt.adm.acquires)
			}
		})
	}
}
