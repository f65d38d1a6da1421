package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubengrill/blocks/internal/board"
	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/piece"
	"github.com/rubengrill/blocks/internal/testutil"
)

func newCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return c
}

func TestCollector_CountsGameEvents(t *testing.T) {
	c := newCollector(t)
	o, _ := piece.Standard().Shape(piece.KindO)

	g, err := game.New(4, 4,
		game.WithSource(game.NewFixedSource(board.BoardBlock{Shape: o})),
		game.WithIDGenerator(testutil.NewSequenceGenerator("b")),
		game.WithObserver(c),
	)
	require.NoError(t, err)

	// Two squares fill and clear the bottom rows. Two more stack up to the
	// top and the fifth cannot enter.
	g.Next()
	g.MoveLeft()
	g.MoveToBottom()
	g.Next()
	g.MoveRight()
	g.MoveToBottom()
	g.Next()
	g.MoveToBottom()
	g.Next()
	g.MoveToBottom()
	g.Next()
	require.True(t, g.IsOver())

	assert.Equal(t, 5.0, promtestutil.ToFloat64(c.spawned.WithLabelValues("O")))
	assert.Equal(t, 5.0, promtestutil.ToFloat64(c.committed))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(c.rowsCleared))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(c.gamesOver))
	assert.Equal(t, 6.0, promtestutil.ToFloat64(c.moves.WithLabelValues("player")), "left, right and four drops")
	assert.Equal(t, 4.0, promtestutil.ToFloat64(c.moves.WithLabelValues("game")))
}

func TestCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestCollector_Snapshot(t *testing.T) {
	c := newCollector(t)
	c.BlockMoved(nil, game.MoveEvent{MovedByGame: true})
	c.BlockMoved(nil, game.MoveEvent{})
	c.BlockMoved(nil, game.MoveEvent{})
	c.RowsCleared(nil, game.ClearEvent{Rows: []int{2, 3}})

	samples, err := c.Snapshot()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, s := range samples {
		values[s.Name] = s.Value
	}
	assert.Equal(t, 1.0, values[`blocks_moves_total{by="game"}`])
	assert.Equal(t, 2.0, values[`blocks_moves_total{by="player"}`])
	assert.Equal(t, 2.0, values["blocks_rows_cleared_total"])
	assert.Equal(t, 0.0, values["blocks_games_over_total"])
	assert.Contains(t, values, "blocks_pieces_committed_total")
}
