package mock

import (
	"context"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo   *mockUserRepo
	StatusRepo *mockStatusRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo:   &mockUserRepo{},
		StatusRepo: &mockStatusRepo{},
	}
}

type mockUserRepo struct {
	Stored    *models.User
	CreateErr error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.User{ID: 1, Name: u.Name, Email: u.Email, PasswordHash: u.PasswordHash}
	return 1, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	m.Stored = u
	return nil
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id int64) error {
	if m.Stored != nil && m.Stored.ID == id {
		m.Stored = nil
	}
	return nil
}

// mockStatusRepo records default-column seeding; the remaining methods
// behave like an empty board.
type mockStatusRepo struct {
	Defaults   []int64
	DefaultErr error
}

func (m *mockStatusRepo) ListStatuses(ctx context.Context, userID int64) ([]models.Status, error) {
	return []models.Status{}, nil
}

func (m *mockStatusRepo) GetStatus(ctx context.Context, id, userID int64) (*models.Status, error) {
	return nil, repository.ErrNotFound
}

func (m *mockStatusRepo) GetStatusByTitle(ctx context.Context, title string, userID int64) (*models.Status, error) {
	return nil, repository.ErrNotFound
}

func (m *mockStatusRepo) CreateStatus(ctx context.Context, userID int64, title string) (*models.Status, error) {
	return &models.Status{ID: 1, UserID: userID, Title: title, Order: 1}, nil
}

func (m *mockStatusRepo) CreateDefaultStatuses(ctx context.Context, userID int64) error {
	if m.DefaultErr != nil {
		return m.DefaultErr
	}
	m.Defaults = append(m.Defaults, userID)
	return nil
}

func (m *mockStatusRepo) RenameStatus(ctx context.Context, id, userID int64, title string) (*models.Status, error) {
	return nil, repository.ErrNotFound
}

func (m *mockStatusRepo) DeleteStatus(ctx context.Context, id, userID int64) error {
	return repository.ErrNotFound
}

func (m *mockStatusRepo) ReorderStatuses(ctx context.Context, userID int64, order []int64) error {
	return nil
}
