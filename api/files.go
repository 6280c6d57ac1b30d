package api

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/internal/validate"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// FileHandler serves document metadata, links to applications, and
// presigned uploads.
type FileHandler struct {
	repo      repository.FileRepo
	store     storage.Store
	validator *validate.Validator
}

func NewFileHandler(repo repository.FileRepo, store storage.Store, v *validate.Validator) *FileHandler {
	return &FileHandler{repo: repo, store: store, validator: v}
}

type presignRequest struct {
	DocType  string `json:"docType"`
	Filename string `json:"filename"`
}

type presignResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type fileCreateRequest struct {
	TypeID         int64   `json:"typeId"`
	URL            string  `json:"url"`
	Name           string  `json:"name"`
	Extension      string  `json:"extension"`
	Description    string  `json:"description"`
	ApplicationIDs []int64 `json:"applicationIds"`
}

func (h *FileHandler) Types(w http.ResponseWriter, r *http.Request) {
	types, err := h.repo.ListFileTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	files, err := h.repo.ListFiles(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Presign hands out a short-lived URL for a direct upload under the user's
// key prefix.
func (h *FileHandler) Presign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req presignRequest
	if err := decodeBody(r, h.validator, validate.Presign, &req); err != nil {
		writeError(w, r, err)
		return
	}
	key, err := storage.ObjectKey(userID, req.DocType, req.Filename)
	if err != nil {
		writeError(w, r, repository.Invalid("filename", "%v", err))
		return
	}
	u, err := h.store.PresignPut(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presignResponse{UploadURL: u, ObjectKey: key})
}

func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req fileCreateRequest
	if err := decodeBody(r, h.validator, validate.FileCreate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, ok := storage.OwnedKey(h.store, userID, req.URL); !ok {
		writeError(w, r, repository.Invalid("url", "must point to an object uploaded by this user"))
		return
	}
	ext := req.Extension
	if ext == "" {
		ext = strings.TrimPrefix(path.Ext(req.Name), ".")
	}

	f, err := h.repo.CreateFile(r.Context(), &models.File{
		UserID:         userID,
		TypeID:         req.TypeID,
		URL:            req.URL,
		Name:           req.Name,
		Extension:      ext,
		Description:    req.Description,
		ApplicationIDs: req.ApplicationIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"file": f})
}

// Update changes metadata and, when applicationIds is present, replaces the
// file's whole link set.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.FilePatch
	if err := decodeBody(r, h.validator, validate.FileUpdate, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.repo.UpdateFile(r.Context(), id, userID, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"file": f})
}

// Delete verifies ownership, removes the blob when the URL maps to a key of
// this user, then the bridge rows, then the file row.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()

	f, err := h.repo.GetFile(ctx, id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if key, ok := storage.OwnedKey(h.store, userID, f.URL); ok {
		if err := h.store.Remove(ctx, key); err != nil {
			writeError(w, r, err)
			return
		}
	} else {
		logger.Warn("file url does not map to an object key; blob kept",
			slog.Int64("file_id", f.ID), slog.String("url", f.URL))
	}

	if err := h.repo.DeleteLinks(ctx, id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.repo.DeleteFile(ctx, id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
