package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/garnizeh/jobboard/pkg/models"
)

var (
	ErrUnknownColumn = errors.New("board: unknown column")
	ErrUnknownCard   = errors.New("board: unknown card")
)

// Store is the in-flight board of one viewer. Every method is synchronous
// and safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	cols   []Column
	lastID int64
}

func NewStore() *Store {
	return &Store{cols: []Column{}}
}

// Load replaces the board with freshly fetched rows.
func (s *Store) Load(statuses []models.Status, apps []models.Application) {
	cols := Load(statuses, apps)
	s.mu.Lock()
	s.cols = cols
	s.mu.Unlock()
}

// Columns returns a copy of the board.
func (s *Store) Columns() []Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.cols)
}

// Card returns card id and the column that holds it.
func (s *Store) Card(id int64) (models.Application, int64, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ci, idx, ok := FindCard(s.cols, id)
	if !ok {
		return models.Application{}, 0, -1, false
	}
	return s.cols[ci].Cards[idx], s.cols[ci].ID, idx, true
}

// Column returns column id.
func (s *Store) Column(id int64) (Column, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ci := ColumnIndex(s.cols, id)
	if ci < 0 {
		return Column{}, -1, false
	}
	return clone(s.cols[ci : ci+1])[0], ci, true
}

// AddCard appends card to columnID under a temporary id. Temporary ids are
// negative and decrease with every call, so they never collide with server
// ids.
func (s *Store) AddCard(columnID int64, card models.Application) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card.ID = s.lastID - 1
	cols, ok := AddCard(s.cols, columnID, card)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownColumn, columnID)
	}
	s.lastID = card.ID
	s.cols = cols
	return card.ID, nil
}

// ConfirmCard replaces the temporary card with the row the server created.
func (s *Store) ConfirmCard(tempID int64, card models.Application) error {
	return s.apply(func(cols []Column) ([]Column, bool) { return ReplaceCard(cols, tempID, card) }, ErrUnknownCard, tempID)
}

func (s *Store) MoveCard(cardID, from, to int64, toIndex int) error {
	return s.apply(func(cols []Column) ([]Column, bool) { return MoveCard(cols, cardID, from, to, toIndex) }, ErrUnknownCard, cardID)
}

func (s *Store) MoveColumn(columnID int64, toIndex int) error {
	return s.apply(func(cols []Column) ([]Column, bool) { return MoveColumn(cols, columnID, toIndex) }, ErrUnknownColumn, columnID)
}

func (s *Store) RemoveCard(cardID int64) error {
	return s.apply(func(cols []Column) ([]Column, bool) { return RemoveCard(cols, cardID) }, ErrUnknownCard, cardID)
}

func (s *Store) apply(fn func([]Column) ([]Column, bool), notFound error, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols, ok := fn(s.cols)
	if !ok {
		return fmt.Errorf("%w: %d", notFound, id)
	}
	s.cols = cols
	return nil
}
