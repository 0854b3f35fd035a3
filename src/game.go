package src

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glitchchess/src/base"
	"glitchchess/src/engine"
	"glitchchess/src/level"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/convert/convlayout"
	"glitchchess/src/logic/history"
	"glitchchess/src/logic/transform"
	"glitchchess/src/logic/turn"
	"glitchchess/src/logx"
	"glitchchess/src/progress"
	"glitchchess/src/timer"
)

var (
	ErrNoGame   = errors.New("no level loaded")
	ErrLocked   = errors.New("level is locked")
	ErrNoEngine = errors.New("no hint engine")
)

// storeTimeout bounds every progress store call made on game end.
const storeTimeout = 2 * time.Second

// GameBuilder ties a level's controller to its collaborators: journal,
// countdown, hint engine and progress store. Use a Create* method first.
// Not safe for concurrent use; front-ends drive it from one loop.
type GameBuilder struct {
	level     *level.Level
	ctrl      *turn.Controller
	history   *history.History
	clock     *timer.Countdown
	engine    engine.Engine
	hint      engine.HintLevel
	store     progress.Store
	src       transform.Source
	timeLimit time.Duration // overrides the level when > 0
	subs      []turn.Listener
	logger    logx.Logger
	started   time.Time
}

func NewBuilderGame(logger logx.Logger) *GameBuilder {
	if logger == nil {
		logger = logx.Nop()
	}
	return &GameBuilder{
		history: history.New(),
		store:   progress.NewMemory(),
		hint:    engine.HintNormal,
		logger:  logger,
	}
}

func (gb *GameBuilder) SetProgressStore(s progress.Store) {
	if s != nil {
		gb.store = s
	}
}

func (gb *GameBuilder) ProgressStore() progress.Store { return gb.store }

func (gb *GameBuilder) SetEngine(e engine.Engine, lvl engine.HintLevel) {
	gb.logger.Debugf("set hint engine, level %d", lvl)
	gb.engine = e
	gb.hint = lvl
}

// SetRandomSource makes the next Create*/Restart use src for
// transformations. nil restores the level seed or the global generator.
func (gb *GameBuilder) SetRandomSource(src transform.Source) { gb.src = src }

func (gb *GameBuilder) SetTimeLimit(d time.Duration) { gb.timeLimit = d }

// Subscribe registers l for the events of this and every later attempt.
func (gb *GameBuilder) Subscribe(l turn.Listener) {
	if l == nil {
		return
	}
	gb.subs = append(gb.subs, l)
	if gb.ctrl != nil {
		gb.ctrl.Subscribe(l)
	}
}

// ---- Create ----

func (gb *GameBuilder) CreateFromLevel(l *level.Level) error {
	if l == nil {
		return ErrNoGame
	}
	gb.logger.Infof("create game: %s (%dx%d, %d enemies)", l.Title(), l.Size, l.Size, len(l.Enemies))
	cfg, err := l.Build(gb.src)
	if err != nil {
		return fmt.Errorf("build %s: %w", l.Title(), err)
	}
	ctrl, err := turn.New(cfg)
	if err != nil {
		return fmt.Errorf("start %s: %w", l.Title(), err)
	}

	gb.level = l
	gb.ctrl = ctrl
	gb.history.Reset()
	limit := l.TimeLimit
	if gb.timeLimit > 0 {
		limit = gb.timeLimit
	}
	gb.clock = timer.New(limit)
	gb.started = time.Now()

	ctrl.Subscribe(gb.history.Record)
	ctrl.Subscribe(gb.onEvent)
	for _, s := range gb.subs {
		ctrl.Subscribe(s)
	}
	gb.logger.Debugf("start kind %s, next %s", ctrl.Kind(), ctrl.Next())
	return nil
}

// CreateFromNumber starts built-in level n if it is unlocked.
func (gb *GameBuilder) CreateFromNumber(ctx context.Context, n int) error {
	l, err := level.ByNumber(n)
	if err != nil {
		return err
	}
	unlocked, err := gb.store.Unlocked(ctx)
	if err != nil {
		gb.logger.Errorf("read progress: %v", err)
		unlocked = progress.FirstLevel
	}
	if n > unlocked {
		return fmt.Errorf("%w: %d (unlocked up to %d)", ErrLocked, n, unlocked)
	}
	return gb.CreateFromLevel(l)
}

func (gb *GameBuilder) CreateFromLayout(layout string) error {
	gb.logger.Debugf("create game by layout: %v", layout)
	l, err := level.FromLayout("custom", layout)
	if err != nil {
		return err
	}
	return gb.CreateFromLevel(l)
}

func (gb *GameBuilder) CreateFromFile(path string) error {
	gb.logger.Debugf("create game by file: %v", path)
	l, err := level.LoadFile(path)
	if err != nil {
		return err
	}
	return gb.CreateFromLevel(l)
}

// Restart rebuilds the current level from its configuration.
func (gb *GameBuilder) Restart() error {
	if gb.level == nil {
		return ErrNoGame
	}
	gb.logger.Info("restart level")
	return gb.CreateFromLevel(gb.level)
}

// ---- Play ----

// Select commits a selection; see turn.Controller.Select. Rejected
// selections are logged at debug and leave everything unchanged.
func (gb *GameBuilder) Select(p base.Point) (turn.Resolution, error) {
	if gb.ctrl == nil {
		return turn.Resolution{}, ErrNoGame
	}
	res, err := gb.ctrl.Select(p)
	if err != nil {
		gb.logger.Debugf("selection ignored: %v", err)
	}
	return res, err
}

func (gb *GameBuilder) Settle() turn.Status {
	if gb.ctrl == nil {
		return turn.Lost
	}
	return gb.ctrl.Settle()
}

func (gb *GameBuilder) Play(p base.Point) (turn.Status, error) {
	if _, err := gb.Select(p); err != nil {
		return gb.Status(), err
	}
	return gb.Settle(), nil
}

// Tick advances the countdown by dt and delivers expiry to the controller.
func (gb *GameBuilder) Tick(dt time.Duration) turn.Status {
	if gb.ctrl == nil {
		return turn.Lost
	}
	if gb.clock.Tick(dt) {
		gb.logger.Info("time expired")
		gb.ctrl.Expire()
	}
	return gb.ctrl.Status()
}

func (gb *GameBuilder) Expire() turn.Status {
	if gb.ctrl == nil {
		return turn.Lost
	}
	return gb.ctrl.Expire()
}

func (gb *GameBuilder) onEvent(ev turn.Event) {
	switch ev := ev.(type) {
	case turn.MoveResolved:
		if ev.Captured != nil {
			gb.logger.Infof("move %d: %s %s takes %s on %s", ev.Ply, ev.Kind, ev.From, ev.Captured.Kind, ev.To)
		} else {
			gb.logger.Infof("move %d: %s %s to %s", ev.Ply, ev.Kind, ev.From, ev.To)
		}
	case turn.KindChanged:
		gb.logger.Infof("player piece changed to %s, next %s", ev.Kind, ev.Next)
	case turn.GameEnded:
		gb.clock.Stop()
		if ev.Won {
			gb.logger.Infof("level won: %s", ev.Reason)
		} else {
			gb.logger.Infof("level lost: %s", ev.Reason)
		}
		gb.persist(ev)
	}
}

func (gb *GameBuilder) persist(ev turn.GameEnded) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if ev.Won && gb.level.Number > 0 {
		unlocked, err := gb.store.UnlockNext(ctx, gb.level.Number)
		if err != nil {
			gb.logger.Errorf("unlock next level: %v", err)
		} else {
			gb.logger.Debugf("unlocked up to level %d", unlocked)
		}
	}
	run := progress.Run{
		Level:      gb.level.Number,
		Name:       gb.level.Name,
		Won:        ev.Won,
		Reason:     ev.Reason.String(),
		Moves:      gb.history.Len(),
		Notation:   gb.history.String(),
		Duration:   time.Since(gb.started),
		FinishedAt: time.Now(),
	}
	if err := gb.store.RecordRun(ctx, run); err != nil {
		gb.logger.Errorf("record run: %v", err)
	}
}

// ---- Hint ----

// Hint asks the engine for the best destination of the current position.
func (gb *GameBuilder) Hint(ctx context.Context) (engine.Candidate, error) {
	if gb.ctrl == nil {
		return engine.Candidate{}, ErrNoGame
	}
	if gb.engine == nil {
		return engine.Candidate{}, ErrNoEngine
	}
	if gb.ctrl.Status() != turn.AwaitingInput {
		return engine.Candidate{}, turn.ErrNotAwaiting
	}
	err := gb.engine.SetPosition(engine.Position{Board: gb.ctrl.Board(), Kind: gb.ctrl.Kind(), Next: gb.ctrl.Next()})
	if err != nil {
		return engine.Candidate{}, err
	}
	info, err := gb.engine.Analyse(ctx, engine.LevelToParams(gb.hint))
	if err != nil {
		return engine.Candidate{}, err
	}
	gb.logger.Debugf("hint %s (score %d, %d nodes, %dms)", info.Best.To, info.Best.Score, info.Nodes, info.TimeMs)
	return *info.Best, nil
}

// ---- Queries ----

func (gb *GameBuilder) Loaded() bool              { return gb.ctrl != nil }
func (gb *GameBuilder) Level() *level.Level        { return gb.level }
func (gb *GameBuilder) History() *history.History { return gb.history }

func (gb *GameBuilder) Status() turn.Status {
	if gb.ctrl == nil {
		return turn.Lost
	}
	return gb.ctrl.Status()
}

func (gb *GameBuilder) Reason() turn.EndReason  { return gb.ctrl.Reason() }
func (gb *GameBuilder) Busy() bool              { return gb.ctrl != nil && gb.ctrl.Busy() }
func (gb *GameBuilder) Kind() base.Kind         { return gb.ctrl.Kind() }
func (gb *GameBuilder) Next() base.Kind         { return gb.ctrl.Next() }
func (gb *GameBuilder) Player() base.Piece      { return gb.ctrl.Player() }
func (gb *GameBuilder) Enemies() []base.Piece   { return gb.ctrl.Enemies() }
func (gb *GameBuilder) Board() *board.Board     { return gb.ctrl.Board() }
func (gb *GameBuilder) LegalMoves() base.Cells  { return gb.ctrl.LegalMoves() }
func (gb *GameBuilder) Captures() base.Cells    { return gb.ctrl.Captures() }
func (gb *GameBuilder) Threats() base.Cells     { return gb.ctrl.Threats() }
func (gb *GameBuilder) Hazards() base.Cells     { return gb.ctrl.Hazards() }
func (gb *GameBuilder) Clock() *timer.Countdown { return gb.clock }

// Layout is the current board in layout notation.
func (gb *GameBuilder) Layout() string {
	return convlayout.FormatBoard(gb.ctrl.Board())
}

// Unlocked reports the highest playable built-in level.
func (gb *GameBuilder) Unlocked(ctx context.Context) int {
	n, err := gb.store.Unlocked(ctx)
	if err != nil {
		gb.logger.Errorf("read progress: %v", err)
		return progress.FirstLevel
	}
	return min(n, level.Count())
}
