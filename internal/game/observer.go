package game

// Observer receives the events of a game.
type Observer interface {
	BlockSpawned(g *Game, e SpawnEvent)
	BlockMoved(g *Game, e MoveEvent)
	BlockCommitted(g *Game, e CommitEvent)
	RowsCleared(g *Game, e ClearEvent)
	GameOver(g *Game, e GameOverEvent)
}

// NopObserver ignores every event. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) BlockSpawned(*Game, SpawnEvent)    {}
func (NopObserver) BlockMoved(*Game, MoveEvent)       {}
func (NopObserver) BlockCommitted(*Game, CommitEvent) {}
func (NopObserver) RowsCleared(*Game, ClearEvent)     {}
func (NopObserver) GameOver(*Game, GameOverEvent)     {}

// ObserverFunc adapts a single function to Observer.
type ObserverFunc func(g *Game, e Event)

func (f ObserverFunc) BlockSpawned(g *Game, e SpawnEvent)    { f(g, e) }
func (f ObserverFunc) BlockMoved(g *Game, e MoveEvent)       { f(g, e) }
func (f ObserverFunc) BlockCommitted(g *Game, e CommitEvent) { f(g, e) }
func (f ObserverFunc) RowsCleared(g *Game, e ClearEvent)     { f(g, e) }
func (f ObserverFunc) GameOver(g *Game, e GameOverEvent)     { f(g, e) }

// Observers fans every event out to each observer in order. A nil entry is
// skipped.
type Observers []Observer

func (os Observers) BlockSpawned(g *Game, e SpawnEvent) {
	for _, o := range os {
		if o != nil {
			o.BlockSpawned(g, e)
		}
	}
}

func (os Observers) BlockMoved(g *Game, e MoveEvent) {
	for _, o := range os {
		if o != nil {
			o.BlockMoved(g, e)
		}
	}
}

func (os Observers) BlockCommitted(g *Game, e CommitEvent) {
	for _, o := range os {
		if o != nil {
			o.BlockCommitted(g, e)
		}
	}
}

func (os Observers) RowsCleared(g *Game, e ClearEvent) {
	for _, o := range os {
		if o != nil {
			o.RowsCleared(g, e)
		}
	}
}

func (os Observers) GameOver(g *Game, e GameOverEvent) {
	for _, o := range os {
		if o != nil {
			o.GameOver(g, e)
		}
	}
}

// Dispatch delivers e to the matching method of o.
func Dispatch(o Observer, g *Game, e Event) {
	switch e := e.(type) {
	case SpawnEvent:
		o.BlockSpawned(g, e)
	case MoveEvent:
		o.BlockMoved(g, e)
	case CommitEvent:
		o.BlockCommitted(g, e)
	case ClearEvent:
		o.RowsCleared(g, e)
	case GameOverEvent:
		o.GameOver(g, e)
	}
}
