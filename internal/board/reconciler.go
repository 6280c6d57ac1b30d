package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/garnizeh/jobboard/pkg/client"
	"github.com/garnizeh/jobboard/pkg/models"
)

// API is the slice of the board client the reconciler persists through.
type API interface {
	CreateApplication(ctx context.Context, a client.NewApplication) (*models.Application, error)
	UpdateApplication(ctx context.Context, id int64, p *models.ApplicationPatch) (*models.Application, error)
	DeleteApplication(ctx context.Context, id int64) error
	MoveStatus(ctx context.Context, id int64, order []int64) error
}

var _ API = (*client.Client)(nil)

var (
	ErrNoDrag  = errors.New("board: no active drag")
	ErrPending = errors.New("board: card is not confirmed yet")
)

// DragPayload is what is being dragged: a CardPayload or a ColumnPayload.
type DragPayload interface {
	dragPayload()
}

type CardPayload struct {
	CardID       int64
	FromColumnID int64
}

type ColumnPayload struct {
	ColumnID int64
}

func (CardPayload) dragPayload()   {}
func (ColumnPayload) dragPayload() {}

// DropTarget is where the drag ended. Bin marks the delete target; otherwise
// ColumnID and Index locate the drop. Column drags only use Index.
type DropTarget struct {
	Bin      bool
	ColumnID int64
	Index    int
}

// Outcome reports what DragEnd did.
type Outcome int

const (
	NoOp Outcome = iota
	Moved
	Deleted
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Deleted:
		return "deleted"
	}
	return "noop"
}

type Option func(*Reconciler)

// WithRevertOnFailure undoes an optimistic move when its persistence call
// fails. Without it failures are only logged.
func WithRevertOnFailure() Option {
	return func(r *Reconciler) { r.revert = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFailureHook is called with every failed persistence call.
func WithFailureHook(fn func(error)) Option {
	return func(r *Reconciler) { r.onFailure = fn }
}

// Reconciler turns drag gestures into exactly one store mutation plus the
// matching API call. One drag is active at a time.
type Reconciler struct {
	store     *Store
	api       API
	logger    *slog.Logger
	revert    bool
	onFailure func(error)

	mu     sync.Mutex
	active DragPayload

	wg sync.WaitGroup
}

func NewReconciler(store *Store, api API, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  store,
		api:    api,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DragStart records the dragged entity, replacing any earlier one.
func (r *Reconciler) DragStart(p DragPayload) {
	r.mu.Lock()
	r.active = p
	r.mu.Unlock()
}

// DragCancel forgets the active drag.
func (r *Reconciler) DragCancel() {
	r.mu.Lock()
	r.active = nil
	r.mu.Unlock()
}

// DragEnd applies the active drag to the board. Moves are applied to the
// store before DragEnd returns and persisted in the background; a bin drop
// deletes on the server first and only then removes the card locally.
func (r *Reconciler) DragEnd(ctx context.Context, target DropTarget) (Outcome, error) {
	r.mu.Lock()
	p := r.active
	r.active = nil
	r.mu.Unlock()

	switch p := p.(type) {
	case CardPayload:
		if target.Bin {
			return r.deleteCard(ctx, p)
		}
		return r.moveCard(ctx, p, target)
	case ColumnPayload:
		if target.Bin {
			return NoOp, nil
		}
		return r.moveColumn(ctx, p, target)
	case nil:
		return NoOp, ErrNoDrag
	default:
		panic(fmt.Sprintf("board: unhandled drag payload %T", p))
	}
}

// Wait blocks until every background persistence call has finished.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}

func (r *Reconciler) deleteCard(ctx context.Context, p CardPayload) (Outcome, error) {
	if p.CardID < 0 {
		return NoOp, ErrPending
	}
	if err := r.api.DeleteApplication(ctx, p.CardID); err != nil {
		r.logger.Error("board: delete card failed", slog.Int64("card_id", p.CardID), slog.Any("err", err))
		return NoOp, err
	}
	if err := r.store.RemoveCard(p.CardID); err != nil {
		return NoOp, err
	}
	return Deleted, nil
}

func (r *Reconciler) moveCard(ctx context.Context, p CardPayload, target DropTarget) (Outcome, error) {
	_, from, fromIdx, ok := r.store.Card(p.CardID)
	if !ok {
		return NoOp, fmt.Errorf("%w: %d", ErrUnknownCard, p.CardID)
	}
	dest, _, ok := r.store.Column(target.ColumnID)
	if !ok {
		return NoOp, fmt.Errorf("%w: %d", ErrUnknownColumn, target.ColumnID)
	}
	if from == target.ColumnID && clamp(target.Index, len(dest.Cards)-1) == fromIdx {
		return NoOp, nil
	}

	if err := r.store.MoveCard(p.CardID, from, target.ColumnID, target.Index); err != nil {
		return NoOp, err
	}
	if p.CardID < 0 {
		// not on the server yet; AddCard reconciles the stage after the create
		return Moved, nil
	}

	stageID, stageName := dest.ID, dest.Title
	r.persist(ctx, "move card", func(ctx context.Context) error {
		_, err := r.api.UpdateApplication(ctx, p.CardID, &models.ApplicationPatch{StageID: &stageID, StageName: &stageName})
		return err
	}, func() error {
		return r.store.MoveCard(p.CardID, target.ColumnID, from, fromIdx)
	})
	return Moved, nil
}

func (r *Reconciler) moveColumn(ctx context.Context, p ColumnPayload, target DropTarget) (Outcome, error) {
	cols := r.store.Columns()
	fromIdx := ColumnIndex(cols, p.ColumnID)
	if fromIdx < 0 {
		return NoOp, fmt.Errorf("%w: %d", ErrUnknownColumn, p.ColumnID)
	}
	if clamp(target.Index, len(cols)-1) == fromIdx {
		return NoOp, nil
	}

	if err := r.store.MoveColumn(p.ColumnID, target.Index); err != nil {
		return NoOp, err
	}
	order := ColumnOrder(r.store.Columns())
	r.persist(ctx, "move column", func(ctx context.Context) error {
		return r.api.MoveStatus(ctx, p.ColumnID, order)
	}, func() error {
		return r.store.MoveColumn(p.ColumnID, fromIdx)
	})
	return Moved, nil
}

// AddCard puts a card on the board under a temporary id, creates it on the
// server in the background and swaps in the stored row once it exists. The
// card is removed again if the create fails and reverting is enabled.
func (r *Reconciler) AddCard(ctx context.Context, columnID int64, a client.NewApplication) (int64, error) {
	tempID, err := r.store.AddCard(columnID, models.Application{
		Company:  a.Company,
		Position: a.Position,
		Notes:    a.Notes,
		URL:      a.URL,
	})
	if err != nil {
		return 0, err
	}

	var created *models.Application
	r.persist(ctx, "add card", func(ctx context.Context) error {
		// the card may have been dragged while pending
		_, col, _, ok := r.store.Card(tempID)
		if ok {
			a.Status = col
		} else {
			a.Status = columnID
		}
		c, err := r.api.CreateApplication(ctx, a)
		if err != nil {
			return err
		}
		if err := r.store.ConfirmCard(tempID, *c); err != nil {
			return err
		}
		created = c
		return r.syncStage(ctx, created)
	}, func() error {
		if created == nil {
			return r.store.RemoveCard(tempID)
		}
		_, col, _, ok := r.store.Card(created.ID)
		if !ok || col == created.StageID {
			return nil
		}
		return r.store.MoveCard(created.ID, col, created.StageID, 0)
	})
	return tempID, nil
}

// syncStage saves the card's local column when it was dragged after the
// create request had already been sent.
func (r *Reconciler) syncStage(ctx context.Context, created *models.Application) error {
	_, col, _, ok := r.store.Card(created.ID)
	if !ok || col == created.StageID {
		return nil
	}
	dest, _, ok := r.store.Column(col)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	stageID, stageName := dest.ID, dest.Title
	_, err := r.api.UpdateApplication(ctx, created.ID, &models.ApplicationPatch{StageID: &stageID, StageName: &stageName})
	return err
}

// persist runs call on its own goroutine. The optimistic mutation has already
// been applied; undo runs only with WithRevertOnFailure.
func (r *Reconciler) persist(ctx context.Context, op string, call func(context.Context) error, undo func() error) {
	ctx = context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := call(ctx)
		if err == nil {
			return
		}
		r.logger.Error("board: "+op+" failed", slog.Any("err", err))
		if r.onFailure != nil {
			r.onFailure(err)
		}
		if !r.revert {
			return
		}
		if uerr := undo(); uerr != nil {
			r.logger.Warn("board: revert "+op+" failed", slog.Any("err", uerr))
		}
	}()
}
