package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options are the per-game rule settings.
type Options struct {
	StartingLife      int
	OpeningHand       int
	Seed              int64
	EmptyLibraryLoses bool
}

// DefaultOptions returns the standard two-player settings.
func DefaultOptions() Options {
	return Options{
		StartingLife:      20,
		OpeningHand:       7,
		Seed:              1,
		EmptyLibraryLoses: true,
	}
}

// AttackPlanner chooses the attacking creatures for player. It must not
// change gs.
type AttackPlanner interface {
	ChooseAttackers(ctx context.Context, gs *GameState, player int) []string
}

// BlockPlanner assigns blocks for defender through GameState.AssignBlocker
// and returns the number of blocks made.
type BlockPlanner interface {
	AssignBlocks(gs *GameState, defender int) int
}

// Engine drives one game: step actions, priority, casting and resolution.
// An Engine is not safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	opts    Options
	state   *GameState
	rng     *rand.Rand
	attack  AttackPlanner
	block   BlockPlanner
	started bool
}

// NewEngine creates an engine whose events go to sink. Shuffles, card
// instance ids and the starting player come from opts.Seed. Stack item and
// effect ids are random and never appear in a GameView.
func NewEngine(logger *zap.Logger, opts Options, sink rules.Sink) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	state := NewGameState(opts.StartingLife, sink)
	state.EmptyLibraryLoses = opts.EmptyLibraryLoses
	return &Engine{
		logger: logger,
		opts:   opts,
		state:  state,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}
}

// SetPlanners installs the combat decision makers. A nil planner declares no
// attackers or no blockers.
func (e *Engine) SetPlanners(attack AttackPlanner, block BlockPlanner) {
	e.attack = attack
	e.block = block
}

// State returns the authoritative game state.
func (e *Engine) State() *GameState {
	return e.state
}

// Options returns the engine settings.
func (e *Engine) Options() Options {
	return e.opts
}

// newCardID derives an instance id from the game seed.
func (e *Engine) newCardID() (string, error) {
	id, err := uuid.NewRandomFromReader(e.rng)
	if err != nil {
		return "", fmt.Errorf("failed to generate card id: %w", err)
	}
	return id.String(), nil
}

// StartGame builds and shuffles both libraries, draws opening hands, picks
// the starting player and grants them priority.
func (e *Engine) StartGame(decks [2][]*carddb.Card) error {
	if e.started {
		return errors.New("game already started")
	}
	for i, list := range decks {
		if len(list) == 0 {
			return fmt.Errorf("player %d deck is empty", i)
		}
	}

	gs := e.state
	for owner, list := range decks {
		for _, static := range list {
			id, err := e.newCardID()
			if err != nil {
				return err
			}
			gs.AddCard(NewCard(id, static, owner), ZoneLibrary)
		}
		library := gs.Players[owner].Library
		e.rng.Shuffle(len(library), func(i, j int) {
			library[i], library[j] = library[j], library[i]
		})
		for range e.opts.OpeningHand {
			if _, err := gs.DrawCard(owner); err != nil {
				break
			}
		}
		// Opening hands larger than the deck are not a loss.
		gs.Players[owner].DrewFromEmpty = false
	}

	start := e.rng.Intn(2)
	gs.StartingPlayer = start
	gs.Turn = rules.NewTurnManager(start)
	e.started = true

	gs.emit(rules.NewEvent(rules.EventGameStarted, start, "", ""))
	gs.emit(rules.NewEvent(rules.EventTurnStarted, start, "", ""))
	e.GrantPriority(start)

	e.logger.Info("game started",
		zap.Int("starting_player", start),
		zap.Int("library_0", len(gs.Players[0].Library)),
		zap.Int("library_1", len(gs.Players[1].Library)),
		zap.Int64("seed", e.opts.Seed),
	)
	return nil
}

// Finish emits the GameOver event and returns the winner, or -1 for a draw
// or a game stopped before anyone lost.
func (e *Engine) Finish(reason string) int {
	gs := e.state
	winner, over := gs.Winner()
	if !over {
		winner = -1
	}
	evt := rules.NewEvent(rules.EventGameOver, winner, "", "")
	evt.Description = reason
	gs.emit(evt)
	e.logger.Info("game over",
		zap.Int("winner", winner),
		zap.String("reason", reason),
		zap.Int("turn", gs.Turn.TurnNumber()),
		zap.Int("life_0", gs.Players[0].Life),
		zap.Int("life_1", gs.Players[1].Life),
	)
	return winner
}
