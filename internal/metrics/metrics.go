// Package metrics counts game events for Prometheus.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rubengrill/blocks/internal/game"
)

const namespace = "blocks"

// Collector is a game.Observer that counts events. Register one per
// process; several games may share it.
type Collector struct {
	spawned     *prometheus.CounterVec
	moves       *prometheus.CounterVec
	committed   prometheus.Counter
	rowsCleared prometheus.Counter
	gamesOver   prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewCollector creates the counters and registers them with reg. Pass a
// *prometheus.Registry to keep them out of the global registry.
func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	c := &Collector{
		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_spawned_total",
			Help:      "Falling blocks spawned, by piece kind.",
		}, []string{"kind"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Moves of the falling block, by who moved it (player or game).",
		}, []string{"by"}),
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_committed_total",
			Help:      "Blocks written into the grid.",
		}),
		rowsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_cleared_total",
			Help:      "Full rows removed.",
		}),
		gamesOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games that ended.",
		}),
		gatherer: reg,
	}

	for _, col := range []prometheus.Collector{c.spawned, c.moves, c.committed, c.rowsCleared, c.gamesOver} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) BlockSpawned(_ *game.Game, e game.SpawnEvent) {
	c.spawned.WithLabelValues(e.Block.Kind().String()).Inc()
}

func (c *Collector) BlockMoved(_ *game.Game, e game.MoveEvent) {
	by := "player"
	if e.MovedByGame {
		by = "game"
	}
	c.moves.WithLabelValues(by).Inc()
}

func (c *Collector) BlockCommitted(*game.Game, game.CommitEvent) {
	c.committed.Inc()
}

func (c *Collector) RowsCleared(_ *game.Game, e game.ClearEvent) {
	c.rowsCleared.Add(float64(len(e.Rows)))
}

func (c *Collector) GameOver(*game.Game, game.GameOverEvent) {
	c.gamesOver.Inc()
}

// Sample is one counter value.
type Sample struct {
	Name  string  `json:"name"` // metric name with labels, e.g. blocks_moves_total{by="game"}
	Value float64 `json:"value"`
}

// Snapshot gathers the current counter values, sorted by name.
func (c *Collector) Snapshot() ([]Sample, error) {
	families, err := c.gatherer.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+`="`+lp.GetValue()+`"`)
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			samples = append(samples, Sample{Name: name, Value: m.GetCounter().GetValue()})
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}
