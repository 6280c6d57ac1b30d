package api

import (
	"net/http"

	"github.com/garnizeh/jobboard/internal/validate"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// ApplicationHandler serves the board cards.
type ApplicationHandler struct {
	repo      repository.ApplicationRepo
	validator *validate.Validator
}

func NewApplicationHandler(repo repository.ApplicationRepo, v *validate.Validator) *ApplicationHandler {
	return &ApplicationHandler{repo: repo, validator: v}
}

// addJobRequest is the body of POST /addjob; status is the id of the
// column the card starts in.
type addJobRequest struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Status      int64  `json:"status"`
	Deadline    string `json:"deadline"`
	DateApplied string `json:"dateApplied"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Notes       string `json:"notes"`
	Salary      string `json:"salary"`
	Color       string `json:"color"`
	CompanyLogo string `json:"companyLogo"`
	Favourite   bool   `json:"favourite"`
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	list, err := h.repo.ListApplications(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req addJobRequest
	if err := decodeBody(r, h.validator, validate.ApplicationCreate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.repo.CreateApplication(r.Context(), &models.Application{
		UserID:      userID,
		StageID:     req.Status,
		Company:     req.Company,
		Position:    req.Position,
		Deadline:    req.Deadline,
		DateApplied: req.DateApplied,
		Location:    req.Location,
		URL:         req.URL,
		Notes:       req.Notes,
		Salary:      req.Salary,
		Color:       req.Color,
		CompanyLogo: req.CompanyLogo,
		Favourite:   req.Favourite,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"job": app})
}

// Update applies a partial update; fields left out of the body, or sent as
// null, keep their stored value.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.ApplicationPatch
	if err := decodeBody(r, h.validator, validate.ApplicationUpdate, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.repo.UpdateApplication(r.Context(), id, userID, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"application": app})
}

func (h *ApplicationHandler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.repo.ToggleFavourite(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"application": app})
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.repo.DeleteApplication(r.Context(), id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
