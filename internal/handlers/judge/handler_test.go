package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

type fakeJudgeService struct {
	mu      sync.Mutex
	calls   []uuid.UUID
	started chan struct{}
}

func (f *fakeJudgeService) Judge(ctx context.Context, submissionID uuid.UUID, problemID int64) error {
	f.mu.Lock()
	f.calls = append(f.calls, submissionID)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	return nil
}

func newTestRouter(svc *fakeJudgeService) *mux.Router {
	r := mux.NewRouter()
	NewJudgeHandler(svc, nil, nopLogger{}).RegisterRoutes(r)
	return r
}

func TestJudgeEndpointAccepts(t *testing.T) {
	t.Parallel()

	svc := &fakeJudgeService{started: make(chan struct{}, 1)}
	router := newTestRouter(svc)

	id := uuid.New()
	body, _ := json.Marshal(JudgeRequest{SubmissionID: id, ProblemID: 3})
	req := httptest.NewRequest(http.MethodPost, "/api/judge", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	select {
	case <-svc.started:
	case <-time.After(time.Second):
		t.Fatal("workflow was never started")
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.calls) != 1 || svc.calls[0] != id {
		t.Errorf("judge calls = %v, want [%s]", svc.calls, id)
	}
}

func TestJudgeEndpointRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: "{nope"},
		{name: "missing submission id", body: `{"problem_id": 3}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &fakeJudgeService{}
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/judge", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			svc.mu.Lock()
			defer svc.mu.Unlock()
			if len(svc.calls) != 0 {
				t.Error("workflow started for invalid input")
			}
		})
	}
}

func TestRejudgeSharesTheTrigger(t *testing.T) {
	t.Parallel()

	svc := &fakeJudgeService{started: make(chan struct{}, 1)}
	router := newTestRouter(svc)

	body, _ := json.Marshal(JudgeRequest{SubmissionID: uuid.New(), ProblemID: 3})
	req := httptest.NewRequest(http.MethodPost, "/api/rejudge", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	select {
	case <-svc.started:
	case <-time.After(time.Second):
		t.Fatal("workflow was never started")
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeJudgeService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
