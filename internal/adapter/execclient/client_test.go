package execclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func TestJudgeSendsHashedToken(t *testing.T) {
	t.Parallel()

	const secret = "YOUR_TOKEN_HERE"
	sum := sha256.Sum256([]byte(secret))
	wantToken := hex.EncodeToString(sum[:])

	var gotToken, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Judge-Server-Token")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(domain.JudgeResponse{Data: json.RawMessage(`[]`)})
	}))
	defer srv.Close()

	client := NewClient(secret, time.Second, nopLogger{})
	resp, err := client.Judge(context.Background(), srv.URL, &domain.JudgeRequest{TestCaseID: "tc-1"})
	if err != nil {
		t.Fatalf("Judge() error = %v", err)
	}
	if resp.Err != "" {
		t.Errorf("resp.Err = %q, want empty", resp.Err)
	}
	if gotToken != wantToken {
		t.Errorf("token header = %q, want sha256 of the secret", gotToken)
	}
	if gotPath != "/judge" {
		t.Errorf("path = %q, want /judge", gotPath)
	}
}

func TestCompileSPJPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(domain.JudgeResponse{})
	}))
	defer srv.Close()

	client := NewClient("s", time.Second, nopLogger{})
	if _, err := client.CompileSPJ(context.Background(), srv.URL, &domain.SPJCompileRequest{Src: "int main(){}"}); err != nil {
		t.Fatalf("CompileSPJ() error = %v", err)
	}
	if gotPath != "/compile_spj" {
		t.Errorf("path = %q, want /compile_spj", gotPath)
	}
}

func TestJudgeWorkerErrorIsNotTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.JudgeResponse{
			Err:  "CompileError",
			Data: json.RawMessage(`"diag"`),
		})
	}))
	defer srv.Close()

	client := NewClient("s", time.Second, nopLogger{})
	resp, err := client.Judge(context.Background(), srv.URL, &domain.JudgeRequest{})
	if err != nil {
		t.Fatalf("Judge() error = %v, worker errors travel in the envelope", err)
	}
	if resp.Err != "CompileError" || resp.Diagnostic() != "diag" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestJudgeTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient("s", time.Second, nopLogger{})
	_, err := client.Judge(context.Background(), srv.URL, &domain.JudgeRequest{})
	if !errors.Is(err, errs.JudgeServerUnreachable) {
		t.Fatalf("error = %v, want errs.JudgeServerUnreachable", err)
	}
}

func TestJudgeMalformedBodyIsTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	client := NewClient("s", time.Second, nopLogger{})
	_, err := client.Judge(context.Background(), srv.URL, &domain.JudgeRequest{})
	if !errors.Is(err, errs.JudgeServerUnreachable) {
		t.Fatalf("error = %v, want errs.JudgeServerUnreachable", err)
	}
}
