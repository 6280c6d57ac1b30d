package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnizeh/jobboard/pkg/models"
)

func sampleStatuses() []models.Status {
	// deliberately unsorted with a gap in the ranking
	return []models.Status{
		{ID: 30, Title: "Offer", Order: 7},
		{ID: 10, Title: "Wishlist", Order: 1},
		{ID: 20, Title: "Applied", Order: 2},
	}
}

func sampleApps() []models.Application {
	return []models.Application{
		{ID: 1, Company: "Acme", StageID: 10},
		{ID: 2, Company: "Globex", StageID: 10},
		{ID: 3, Company: "Initech", StageID: 20},
		{ID: 4, Company: "Hooli", StageID: 99},
	}
}

func cardIDs(c Column) []int64 {
	ids := make([]int64, len(c.Cards))
	for i, a := range c.Cards {
		ids[i] = a.ID
	}
	return ids
}

func TestLoad(t *testing.T) {
	cols := Load(sampleStatuses(), sampleApps())

	require.Equal(t, []int64{10, 20, 30}, ColumnOrder(cols))
	require.Equal(t, []int64{1, 2, 4}, cardIDs(cols[0]), "unknown stage falls into the first column")
	require.Equal(t, int64(10), cols[0].Cards[2].StageID, "fallback card takes the first column as its stage")
	require.Equal(t, []int64{3}, cardIDs(cols[1]))
	require.Empty(t, cols[2].Cards)
	require.NotNil(t, cols[2].Cards)

	require.Empty(t, Load(nil, sampleApps()))
}

func TestMoveCard(t *testing.T) {
	cols := Load(sampleStatuses(), sampleApps())

	tests := []struct {
		name     string
		card     int64
		from, to int64
		index    int
		wantFrom []int64
		wantTo   []int64
	}{
		{"AcrossToFront", 1, 10, 20, 0, []int64{2, 4}, []int64{1, 3}},
		{"AcrossPastEndAppends", 1, 10, 20, 42, []int64{2, 4}, []int64{3, 1}},
		{"NegativeClampsToFront", 2, 10, 30, -5, []int64{1, 4}, []int64{2}},
		{"WithinColumn", 1, 10, 10, 2, []int64{2, 4, 1}, []int64{2, 4, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := MoveCard(cols, tc.card, tc.from, tc.to, tc.index)
			require.True(t, ok)
			require.Equal(t, tc.wantFrom, cardIDs(out[ColumnIndex(out, tc.from)]))
			require.Equal(t, tc.wantTo, cardIDs(out[ColumnIndex(out, tc.to)]))
			require.Equal(t, CardCount(cols), CardCount(out))
		})
	}

	// input is never mutated
	require.Equal(t, []int64{1, 2, 4}, cardIDs(cols[0]))

	_, ok := MoveCard(cols, 3, 10, 20, 0)
	require.False(t, ok, "card is not in the source column")
	_, ok = MoveCard(cols, 1, 10, 77, 0)
	require.False(t, ok, "unknown destination")
}

func TestMoveCard_UpdatesStage(t *testing.T) {
	cols := Load(sampleStatuses(), sampleApps())
	out, ok := MoveCard(cols, 2, 10, 30, 0)
	require.True(t, ok)
	ci, idx, found := FindCard(out, 2)
	require.True(t, found)
	require.Equal(t, int64(30), out[ci].ID)
	require.Equal(t, int64(30), out[ci].Cards[idx].StageID)
}

func TestMoveCard_ConservesCards(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	cols := Load(sampleStatuses(), sampleApps())
	total := CardCount(cols)

	for i := 0; i < 500; i++ {
		from := cols[rng.IntN(len(cols))]
		if len(from.Cards) == 0 {
			continue
		}
		card := from.Cards[rng.IntN(len(from.Cards))]
		to := cols[rng.IntN(len(cols))]

		next, ok := MoveCard(cols, card.ID, from.ID, to.ID, rng.IntN(8)-2)
		require.True(t, ok)
		require.Equal(t, total, CardCount(next), "step %d", i)

		seen := map[int64]bool{}
		for _, c := range next {
			for _, a := range c.Cards {
				require.False(t, seen[a.ID], "card %d duplicated", a.ID)
				seen[a.ID] = true
				require.Equal(t, c.ID, a.StageID)
			}
		}
		cols = next
	}
}

func TestMoveColumn(t *testing.T) {
	cols := Load(sampleStatuses(), sampleApps())

	out, ok := MoveColumn(cols, 30, 0)
	require.True(t, ok)
	require.Equal(t, []int64{30, 10, 20}, ColumnOrder(out))

	out, ok = MoveColumn(cols, 10, 99)
	require.True(t, ok)
	require.Equal(t, []int64{20, 30, 10}, ColumnOrder(out))
	require.Equal(t, []int64{1, 2, 4}, cardIDs(out[2]), "cards travel with their column")

	_, ok = MoveColumn(cols, 5, 0)
	require.False(t, ok)
	require.Equal(t, []int64{10, 20, 30}, ColumnOrder(cols))
}

func TestAddAndRemoveCard(t *testing.T) {
	cols := Load(sampleStatuses(), sampleApps())

	out, ok := AddCard(cols, 30, models.Application{ID: -1, Company: "Umbrella"})
	require.True(t, ok)
	require.Equal(t, []int64{-1}, cardIDs(out[2]))
	require.Equal(t, int64(30), out[2].Cards[0].StageID)

	out, ok = RemoveCard(out, 3)
	require.True(t, ok)
	require.Empty(t, out[1].Cards)
	require.Equal(t, 4, CardCount(out))

	_, ok = RemoveCard(out, 3)
	require.False(t, ok)
	_, ok = AddCard(cols, 5, models.Application{})
	require.False(t, ok)
}
