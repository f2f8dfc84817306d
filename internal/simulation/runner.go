// Package simulation plays complete AI-versus-AI matches.
package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/config"
	"github.com/Casiics/MagiCore/internal/game"
	"github.com/Casiics/MagiCore/internal/game/ai"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/Casiics/MagiCore/internal/game/watchers"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/Casiics/MagiCore/internal/simulation"

// DefaultMaxTurns is the turn limit when Options leave it unset.
const DefaultMaxTurns = 10

// maxActionsPerStep bounds the priority loop of one step.
const maxActionsPerStep = 500

// ErrStalled is returned when a step never reaches a mutual pass.
var ErrStalled = errors.New("simulation stalled")

// Options configure one match.
type Options struct {
	GameID                 string
	Game                   game.Options
	MaxTurns               int
	AttackStrategy         string
	MaxExhaustiveAttackers int
	ReplayDir              string
}

// OptionsFromConfig builds match options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Game: game.Options{
			StartingLife:      cfg.Game.StartingLife,
			OpeningHand:       cfg.Game.OpeningHand,
			Seed:              cfg.Game.Seed,
			EmptyLibraryLoses: cfg.Game.EmptyLibraryLoses,
		},
		MaxTurns:               cfg.Game.MaxTurns,
		AttackStrategy:         cfg.AI.Strategy,
		MaxExhaustiveAttackers: cfg.AI.MaxExhaustiveAttackers,
		ReplayDir:              cfg.Replay.Dir,
	}
}

// PlayerStats are the per-player tallies of a match.
type PlayerStats struct {
	SpellsCast    int `json:"spells_cast"`
	CreaturesDied int `json:"creatures_died"`
	CardsDrawn    int `json:"cards_drawn"`
	DamageTaken   int `json:"damage_taken"`
	LifeGained    int `json:"life_gained"`
}

// Result summarizes a finished match.
type Result struct {
	GameID   string         `json:"game_id"`
	Seed     int64          `json:"seed"`
	Winner   int            `json:"winner"`
	Over     bool           `json:"over"`
	Reason   string         `json:"reason"`
	Turns    int            `json:"turns"`
	Life     [2]int         `json:"life"`
	Checksum string         `json:"checksum"`
	Frames   int            `json:"frames"`
	Stats    [2]PlayerStats `json:"stats"`
}

// Runner drives one match: step actions, state-based checks and the priority
// loop, with both players controlled by the AI.
type Runner struct {
	logger   *zap.Logger
	opts     Options
	engine   *game.Engine
	bus      *rules.EventBus
	stats    *watchers.Stats
	attacker *ai.Attacker
	policy   *ai.Policy
	recorder *game.ReplayRecorder
	tracer   trace.Tracer
}

// NewRunner creates a runner. Events also go to sink when it is not nil.
func NewRunner(logger *zap.Logger, opts Options, sink rules.Sink) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.GameID == "" {
		opts.GameID = uuid.NewString()
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	logger = logger.With(zap.String("game_id", opts.GameID))

	bus := rules.NewEventBus()
	registry := rules.NewWatcherRegistry()
	stats := watchers.NewStats(registry)
	bus.Subscribe(registry.Publish)
	if sink != nil {
		bus.Subscribe(sink.Publish)
	}

	engine := game.NewEngine(logger, opts.Game, bus)
	blocker := ai.NewGreedyBlocker(logger)
	attacker := ai.NewAttacker(logger, blocker, opts.MaxExhaustiveAttackers)
	if opts.AttackStrategy != "" {
		if s, ok := ai.StrategyByName(opts.AttackStrategy); ok {
			attacker.SetStrategy(s)
		} else {
			logger.Warn("unknown attack strategy, using exhaustive", zap.String("strategy", opts.AttackStrategy))
		}
	}
	engine.SetPlanners(attacker, blocker)

	return &Runner{
		logger:   logger,
		opts:     opts,
		engine:   engine,
		bus:      bus,
		stats:    stats,
		attacker: attacker,
		policy:   ai.NewPolicy(logger),
		recorder: game.NewReplayRecorder(logger, opts.GameID, opts.Game.Seed, opts.ReplayDir),
		tracer:   otel.Tracer(tracerName),
	}
}

// Engine returns the engine the runner drives.
func (r *Runner) Engine() *game.Engine {
	return r.engine
}

// Replay returns the frames recorded so far.
func (r *Runner) Replay() *game.Replay {
	return r.recorder.Replay()
}

// Run plays the match until a player loses or the turn limit passes. It
// checks ctx between steps.
func (r *Runner) Run(ctx context.Context, decks [2][]*carddb.Card) (res *Result, err error) {
	ctx, span := r.tracer.Start(ctx, "simulation.match",
		trace.WithAttributes(
			attribute.String("game.id", r.opts.GameID),
			attribute.Int64("game.seed", r.opts.Game.Seed),
			attribute.Int("game.max_turns", r.opts.MaxTurns),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := r.engine.StartGame(decks); err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	gs := r.engine.State()
	r.recorder.RecordState(gs)

	for !gs.IsOver() && gs.Turn.TurnNumber() <= r.opts.MaxTurns {
		if err := r.playTurn(ctx); err != nil {
			return nil, err
		}
	}

	reason := "turn limit"
	if gs.IsOver() {
		reason = "player lost"
	}
	winner := r.engine.Finish(reason)
	if err := r.recorder.Save(); err != nil {
		r.logger.Warn("replay not saved", zap.Error(err))
	}

	res = r.result(winner, reason)
	span.SetAttributes(
		attribute.Int("game.winner", res.Winner),
		attribute.Int("game.turns", res.Turns),
		attribute.String("game.checksum", res.Checksum),
	)
	return res, nil
}

// playTurn plays steps until the active player changes or the game ends.
func (r *Runner) playTurn(ctx context.Context) error {
	gs := r.engine.State()
	turn, active := gs.Turn.TurnNumber(), gs.Turn.ActivePlayer()
	ctx, span := r.tracer.Start(ctx, "simulation.turn",
		trace.WithAttributes(
			attribute.Int("game.turn", turn),
			attribute.Int("game.active_player", active),
		),
	)
	defer span.End()

	for !gs.IsOver() && gs.Turn.TurnNumber() == turn && gs.Turn.ActivePlayer() == active {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.playStep(ctx); err != nil {
			span.RecordError(err)
			return err
		}
	}
	span.SetAttributes(
		attribute.Int("game.life_0", gs.Player(0).Life),
		attribute.Int("game.life_1", gs.Player(1).Life),
	)
	return nil
}

// playStep runs the current step: its automatic action, a state-based check,
// then priority from the active player until both pass in a row with an
// empty stack.
func (r *Runner) playStep(ctx context.Context) error {
	e, gs := r.engine, r.engine.State()
	e.ExecuteCurrentStepActions(ctx)
	gs.CheckStateBasedActions()
	if gs.IsOver() {
		return nil
	}
	e.GrantPriority(gs.Turn.ActivePlayer())

	for range maxActionsPerStep {
		holder := gs.Priority.Holder()
		action := r.policy.Choose(gs, holder)
		outcome, err := e.Apply(ctx, action)
		if err != nil {
			r.logger.Warn("action rejected", zap.Stringer("action", action), zap.Error(err))
			outcome, err = e.Apply(ctx, game.Pass(holder))
			if err != nil {
				return fmt.Errorf("pass for player %d: %w", holder, err)
			}
		}
		gs.CheckStateBasedActions()
		if gs.IsOver() {
			return nil
		}
		if outcome == game.PassAdvanced {
			r.recorder.RecordState(gs)
			return nil
		}
	}
	return fmt.Errorf("%w: step %s of turn %d", ErrStalled, gs.Turn.CurrentStep(), gs.Turn.TurnNumber())
}

func (r *Runner) result(winner int, reason string) *Result {
	gs := r.engine.State()
	turns := gs.Turn.TurnNumber()
	if turns > r.opts.MaxTurns {
		turns = r.opts.MaxTurns
	}
	res := &Result{
		GameID:   r.opts.GameID,
		Seed:     r.opts.Game.Seed,
		Winner:   winner,
		Over:     gs.IsOver(),
		Reason:   reason,
		Turns:    turns,
		Life:     [2]int{gs.Player(0).Life, gs.Player(1).Life},
		Checksum: gs.Checksum(),
		Frames:   r.recorder.Replay().Size(),
	}
	for p := range 2 {
		res.Stats[p] = PlayerStats{
			SpellsCast:    r.stats.SpellsCast.Count(p),
			CreaturesDied: r.stats.CreaturesDied.Count(p),
			CardsDrawn:    r.stats.CardsDrawn.Count(p),
			DamageTaken:   r.stats.DamageTaken.Count(p),
			LifeGained:    r.stats.LifeGained.Count(p),
		}
	}
	return res
}
