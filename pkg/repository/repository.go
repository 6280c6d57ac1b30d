package repository

import (
	"context"

	"github.com/garnizeh/jobboard/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Every method that takes a userID scopes its query by it: a row owned by
// another user is reported as ErrNotFound, never returned.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type StatusRepo interface {
	ListStatuses(ctx context.Context, userID int64) ([]models.Status, error)
	GetStatus(ctx context.Context, id, userID int64) (*models.Status, error)
	GetStatusByTitle(ctx context.Context, title string, userID int64) (*models.Status, error)
	CreateStatus(ctx context.Context, userID int64, title string) (*models.Status, error)
	CreateDefaultStatuses(ctx context.Context, userID int64) error
	RenameStatus(ctx context.Context, id, userID int64, title string) (*models.Status, error)
	DeleteStatus(ctx context.Context, id, userID int64) error
	// ReorderStatuses persists a complete ordering: order[i] gets rank i+1.
	ReorderStatuses(ctx context.Context, userID int64, order []int64) error
}

type ApplicationRepo interface {
	ListApplications(ctx context.Context, userID int64) ([]models.Application, error)
	GetApplication(ctx context.Context, id, userID int64) (*models.Application, error)
	CreateApplication(ctx context.Context, a *models.Application) (*models.Application, error)
	UpdateApplication(ctx context.Context, id, userID int64, p *models.ApplicationPatch) (*models.Application, error)
	ToggleFavourite(ctx context.Context, id, userID int64) (*models.Application, error)
	DeleteApplication(ctx context.Context, id, userID int64) error
}

type FileRepo interface {
	ListFileTypes(ctx context.Context) ([]models.FileType, error)
	GetFileType(ctx context.Context, id int64) (*models.FileType, error)
	ListFiles(ctx context.Context, userID int64) ([]models.File, error)
	GetFile(ctx context.Context, id, userID int64) (*models.File, error)
	// CreateFile inserts the file row and then, as a separate write, its
	// bridge rows. The two writes are not joined in one transaction.
	CreateFile(ctx context.Context, f *models.File) (*models.File, error)
	UpdateFile(ctx context.Context, id, userID int64, p *models.FilePatch) (*models.File, error)
	// ReplaceLinks drops every bridge row of the file and inserts ids.
	ReplaceLinks(ctx context.Context, fileID, userID int64, ids []int64) error
	DeleteLinks(ctx context.Context, fileID, userID int64) error
	DeleteFile(ctx context.Context, id, userID int64) error
}

// AccountRepo removes everything a user owns. Each step is scoped to the
// user and the caller runs them in dependency order.
type AccountRepo interface {
	DeleteAllLinks(ctx context.Context, userID int64) error
	DeleteAllFiles(ctx context.Context, userID int64) error
	DeleteAllApplications(ctx context.Context, userID int64) error
	DeleteAllStatuses(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, id int64) error
}
