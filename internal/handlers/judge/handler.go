package judge

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	judgesvc "gitlab.com/ojcore.net/internal/core/services/judge"
	"gitlab.com/ojcore.net/internal/handlers/response"
)

// JudgeHandler exposes the inbound workflow trigger. The API layer calls it
// right after creating a submission; rejudge uses the same shape.
type JudgeHandler struct {
	judgeService judgesvc.IJudgeService
	spjCompiler  *judgesvc.SPJCompiler
	logger       primary.Logger
}

// NewJudgeHandler creates a new judge handler
func NewJudgeHandler(judgeService judgesvc.IJudgeService, spjCompiler *judgesvc.SPJCompiler, logger primary.Logger) *JudgeHandler {
	return &JudgeHandler{
		judgeService: judgeService,
		spjCompiler:  spjCompiler,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for JudgeHandler
func (h *JudgeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/judge", h.Judge).Methods("POST")
	router.HandleFunc("/api/rejudge", h.Judge).Methods("POST")
	router.HandleFunc("/api/compile_spj", h.CompileSPJ).Methods("POST")
	router.HandleFunc("/healthz", h.Health).Methods("GET")
}

// JudgeRequest is the trigger payload
type JudgeRequest struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	ProblemID    int64     `json:"problem_id"`
}

// Judge fires the judging workflow asynchronously and returns 202. Rejudge is
// the same entry point: the workflow detects a prior verdict by itself.
func (h *JudgeHandler) Judge(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}
	if req.SubmissionID == uuid.Nil {
		response.WriteError(w, response.ErrorMessage{Message: "submission_id is required", StatusCode: http.StatusBadRequest})
		return
	}

	go func() {
		if err := h.judgeService.Judge(context.Background(), req.SubmissionID, req.ProblemID); err != nil {
			h.logger.Error("Judging failed", "submissionId", req.SubmissionID, "error", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"submission_id": req.SubmissionID})
}

// SPJCompileRequest carries checker source for pre-compilation
type SPJCompileRequest struct {
	Src      string `json:"src"`
	Version  string `json:"version"`
	Language string `json:"language"`
}

// CompileSPJ compiles checker code synchronously. The admin console blocks
// on this before the checker can be referenced by a problem.
func (h *JudgeHandler) CompileSPJ(w http.ResponseWriter, r *http.Request) {
	var req SPJCompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	if msg := h.spjCompiler.Compile(r.Context(), req.Src, req.Version, req.Language); msg != "" {
		response.WriteError(w, response.ErrorMessage{Message: msg, StatusCode: http.StatusUnprocessableEntity})
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "compiled"})
}

// Health reports liveness
func (h *JudgeHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string]string{"status": "ok"})
}
