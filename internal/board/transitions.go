// Package board holds the client-side kanban state: pure transitions over a
// slice of columns, a mutex-guarded Store around them, and a Reconciler that
// turns drag gestures into store mutations plus API calls.
package board

import (
	"slices"

	"github.com/garnizeh/jobboard/pkg/models"
)

// Column is a status together with the cards it currently holds.
type Column struct {
	ID    int64                `json:"id"`
	Title string               `json:"title"`
	Order int64                `json:"order"`
	Cards []models.Application `json:"cards"`
}

// Load groups applications by stage in the stored column order. Cards whose
// stage is unknown land in the first column and take its id as their stage;
// with no columns they are dropped.
func Load(statuses []models.Status, apps []models.Application) []Column {
	sorted := slices.Clone(statuses)
	slices.SortStableFunc(sorted, func(a, b models.Status) int {
		switch {
		case a.Order < b.Order:
			return -1
		case a.Order > b.Order:
			return 1
		}
		return 0
	})

	cols := make([]Column, len(sorted))
	index := make(map[int64]int, len(sorted))
	for i, st := range sorted {
		cols[i] = Column{ID: st.ID, Title: st.Title, Order: st.Order, Cards: []models.Application{}}
		index[st.ID] = i
	}
	if len(cols) == 0 {
		return cols
	}
	for _, a := range apps {
		i, ok := index[a.StageID]
		if !ok {
			i = 0
			a.StageID = cols[0].ID
		}
		cols[i].Cards = append(cols[i].Cards, a)
	}
	return cols
}

// clone copies the column slice and every card slice so callers can mutate
// the result freely.
func clone(cols []Column) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = c
		out[i].Cards = slices.Clone(c.Cards)
		if out[i].Cards == nil {
			out[i].Cards = []models.Application{}
		}
	}
	return out
}

// ColumnIndex returns the position of column id.
func ColumnIndex(cols []Column, id int64) int {
	return slices.IndexFunc(cols, func(c Column) bool { return c.ID == id })
}

// FindCard returns the column and card positions of card id.
func FindCard(cols []Column, id int64) (col, idx int, ok bool) {
	for ci, c := range cols {
		for i, card := range c.Cards {
			if card.ID == id {
				return ci, i, true
			}
		}
	}
	return -1, -1, false
}

// ColumnOrder returns the column ids in board order.
func ColumnOrder(cols []Column) []int64 {
	ids := make([]int64, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

// CardCount is the total number of cards on the board.
func CardCount(cols []Column) int {
	n := 0
	for _, c := range cols {
		n += len(c.Cards)
	}
	return n
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// AddCard appends card to column columnID.
func AddCard(cols []Column, columnID int64, card models.Application) ([]Column, bool) {
	ci := ColumnIndex(cols, columnID)
	if ci < 0 {
		return cols, false
	}
	out := clone(cols)
	card.StageID = columnID
	out[ci].Cards = append(out[ci].Cards, card)
	return out, true
}

// MoveCard takes card id out of column from and splices it into column to at
// toIndex. An index past the end appends; a negative one inserts first.
func MoveCard(cols []Column, cardID, from, to int64, toIndex int) ([]Column, bool) {
	fi, ti := ColumnIndex(cols, from), ColumnIndex(cols, to)
	if fi < 0 || ti < 0 {
		return cols, false
	}
	idx := slices.IndexFunc(cols[fi].Cards, func(a models.Application) bool { return a.ID == cardID })
	if idx < 0 {
		return cols, false
	}

	out := clone(cols)
	card := out[fi].Cards[idx]
	out[fi].Cards = slices.Delete(out[fi].Cards, idx, idx+1)
	card.StageID = to
	pos := clamp(toIndex, len(out[ti].Cards))
	out[ti].Cards = slices.Insert(out[ti].Cards, pos, card)
	return out, true
}

// MoveColumn moves column id to toIndex, clamped to the board.
func MoveColumn(cols []Column, columnID int64, toIndex int) ([]Column, bool) {
	ci := ColumnIndex(cols, columnID)
	if ci < 0 {
		return cols, false
	}
	out := clone(cols)
	col := out[ci]
	out = slices.Delete(out, ci, ci+1)
	out = slices.Insert(out, clamp(toIndex, len(out)), col)
	return out, true
}

// RemoveCard filters card id out of whichever column holds it.
func RemoveCard(cols []Column, cardID int64) ([]Column, bool) {
	ci, idx, ok := FindCard(cols, cardID)
	if !ok {
		return cols, false
	}
	out := clone(cols)
	out[ci].Cards = slices.Delete(out[ci].Cards, idx, idx+1)
	return out, true
}

// ReplaceCard swaps the card with id old for card, keeping its position.
func ReplaceCard(cols []Column, old int64, card models.Application) ([]Column, bool) {
	ci, idx, ok := FindCard(cols, old)
	if !ok {
		return cols, false
	}
	out := clone(cols)
	card.StageID = out[ci].ID
	out[ci].Cards[idx] = card
	return out, true
}
