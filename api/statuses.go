package api

import (
	"net/http"
	"slices"

	"github.com/garnizeh/jobboard/internal/validate"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// StatusHandler serves the board columns.
type StatusHandler struct {
	repo      repository.StatusRepo
	validator *validate.Validator
}

func NewStatusHandler(repo repository.StatusRepo, v *validate.Validator) *StatusHandler {
	return &StatusHandler{repo: repo, validator: v}
}

type statusRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	Order []int64 `json:"order"`
}

func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	list, err := h.repo.ListStatuses(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeBody(r, h.validator, validate.Status, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := h.repo.CreateStatus(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": st})
}

func (h *StatusHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeBody(r, h.validator, validate.Status, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := h.repo.RenameStatus(r.Context(), id, userID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": st})
}

func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.repo.DeleteStatus(r.Context(), id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// Move stores the complete column order sent by the client. The {id} in the
// path is the column that was dragged and must be part of the order.
func (h *StatusHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeBody(r, h.validator, validate.StatusOrder, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !slices.Contains(req.Order, id) {
		writeError(w, r, repository.Invalid("order", "must contain the moved status %d", id))
		return
	}
	if err := h.repo.ReorderStatuses(r.Context(), userID, req.Order); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
