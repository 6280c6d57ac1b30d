// Package attach runs the document flow from the client side: presign,
// direct upload, file row, and the file to application links.
package attach

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/client"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// API is the part of the board client used for documents.
type API interface {
	ListFileTypes(ctx context.Context) ([]models.FileType, error)
	ListFiles(ctx context.Context) ([]models.File, error)
	Presign(ctx context.Context, docType, filename string) (*client.Presigned, error)
	UploadObject(ctx context.Context, uploadURL string, body io.Reader, size int64, contentType string) error
	CreateFile(ctx context.Context, f client.NewFile) (*models.File, error)
	ReplaceLinks(ctx context.Context, fileID int64, ids []int64) (*models.File, error)
	DeleteFile(ctx context.Context, id int64) error
}

var _ API = (*client.Client)(nil)

// Upload describes one document to store.
type Upload struct {
	DocType        string
	Filename       string
	Body           io.Reader
	Size           int64
	ContentType    string
	Description    string
	ApplicationIDs []int64
}

type Service struct {
	api    API
	logger *slog.Logger

	mu    sync.Mutex
	types map[string]int64
}

func NewService(api API, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}
}

func (s *Service) typeID(ctx context.Context, code string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.types == nil {
		list, err := s.api.ListFileTypes(ctx)
		if err != nil {
			return 0, fmt.Errorf("list file types: %w", err)
		}
		s.types = make(map[string]int64, len(list))
		for _, ft := range list {
			s.types[ft.Code] = ft.ID
		}
	}
	id, ok := s.types[code]
	if !ok {
		return 0, repository.Invalid("docType", "unknown document type %q", code)
	}
	return id, nil
}

// UploadAndCreate presigns, uploads the body straight to the object store and
// then records the file with its links. The steps are not atomic: a failure
// after the upload leaves an object without a file row.
func (s *Service) UploadAndCreate(ctx context.Context, u Upload) (*models.File, error) {
	if !storage.ValidDocType(u.DocType) {
		return nil, repository.Invalid("docType", "must be %q or %q", storage.DocCV, storage.DocCoverLetter)
	}
	typeID, err := s.typeID(ctx, u.DocType)
	if err != nil {
		return nil, err
	}

	p, err := s.api.Presign(ctx, u.DocType, u.Filename)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	if err := s.api.UploadObject(ctx, p.UploadURL, u.Body, u.Size, u.ContentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", p.ObjectKey, err)
	}

	f, err := s.api.CreateFile(ctx, client.NewFile{
		TypeID:         typeID,
		URL:            storage.StripQuery(p.UploadURL),
		Name:           u.Filename,
		Description:    u.Description,
		ApplicationIDs: u.ApplicationIDs,
	})
	if err != nil {
		s.logger.Warn("attach: uploaded object has no file row", slog.String("key", p.ObjectKey), slog.Any("err", err))
		return nil, fmt.Errorf("create file: %w", err)
	}
	s.logger.Info("attach: file created", slog.Int64("file_id", f.ID), slog.Int("links", len(f.ApplicationIDs)))
	return f, nil
}

// ReplaceLinks sets the full list of applications for a file.
func (s *Service) ReplaceLinks(ctx context.Context, fileID int64, ids []int64) (*models.File, error) {
	return s.api.ReplaceLinks(ctx, fileID, ids)
}

func (s *Service) file(ctx context.Context, fileID int64) (models.File, error) {
	files, err := s.api.ListFiles(ctx)
	if err != nil {
		return models.File{}, err
	}
	i := slices.IndexFunc(files, func(f models.File) bool { return f.ID == fileID })
	if i < 0 {
		return models.File{}, repository.ErrNotFound
	}
	return files[i], nil
}

// Attach links a file to one more application.
func (s *Service) Attach(ctx context.Context, fileID, appID int64) (*models.File, error) {
	f, err := s.file(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if slices.Contains(f.ApplicationIDs, appID) {
		return &f, nil
	}
	return s.api.ReplaceLinks(ctx, fileID, append(slices.Clone(f.ApplicationIDs), appID))
}

// Detach unlinks a file from one application.
func (s *Service) Detach(ctx context.Context, fileID, appID int64) (*models.File, error) {
	f, err := s.file(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(f.ApplicationIDs, appID) {
		return &f, nil
	}
	ids := slices.DeleteFunc(slices.Clone(f.ApplicationIDs), func(id int64) bool { return id == appID })
	return s.api.ReplaceLinks(ctx, fileID, ids)
}

// Delete removes a file; the server drops the object and links with it.
func (s *Service) Delete(ctx context.Context, fileID int64) error {
	return s.api.DeleteFile(ctx, fileID)
}

// ForApplication returns the files linked to appID.
func ForApplication(files []models.File, appID int64) []models.File {
	out := []models.File{}
	for _, f := range files {
		if slices.Contains(f.ApplicationIDs, appID) {
			out = append(out, f)
		}
	}
	return out
}

// Unused returns the files not yet linked to appID, the picker list for
// that application.
func Unused(files []models.File, appID int64) []models.File {
	out := []models.File{}
	for _, f := range files {
		if !slices.Contains(f.ApplicationIDs, appID) {
			out = append(out, f)
		}
	}
	return out
}
