package api

import (
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobboard/internal/jobs"
)

// AccountHandler schedules removal of the caller's account.
type AccountHandler struct {
	queue jobs.Enqueuer
}

func NewAccountHandler(q jobs.Enqueuer) *AccountHandler {
	return &AccountHandler{queue: q}
}

type accountDeleteResponse struct {
	JobID int64 `json:"jobId"`
}

// Delete enqueues a purge job and answers 202; the token stays valid until
// it expires but every row behind it is gone once the job has run.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := h.queue.Enqueue(r.Context(), jobs.TypeAccountPurge, jobs.AccountPurgePayload{UserID: userID}, 10, 5)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.Info("account purge scheduled", slog.Int64("user_id", userID), slog.Int64("job_id", id))
	writeJSON(w, http.StatusAccepted, accountDeleteResponse{JobID: id})
}
