package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// JobRunner is the scheduler surface exposed over HTTP.
type JobRunner interface {
	Jobs() []string
	RunOnce(ctx context.Context, name string) error
}

type JobHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	runner JobRunner
}

func NewJobHandler(runner JobRunner) JobHandler {
	return &jobHandlerImpl{runner: runner}
}

func (h *jobHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string][]string{"jobs": h.runner.Jobs()})
}

// Run executes a scheduled job immediately and waits for it to finish
func (h *jobHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.runner.RunOnce(r.Context(), name); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job completed", map[string]string{"job": name})
}
