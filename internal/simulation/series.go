package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeriesState represents the state of a series
type SeriesState int

const (
	SeriesStateWaiting SeriesState = iota
	SeriesStateInProgress
	SeriesStateFinished
)

func (s SeriesState) String() string {
	switch s {
	case SeriesStateWaiting:
		return "WAITING"
	case SeriesStateInProgress:
		return "IN_PROGRESS"
	case SeriesStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the state by name.
func (s SeriesState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Standing is one side's record in a series. A win is worth 3 points and a
// draw 1.
type Standing struct {
	Name   string
	Points int
	Wins   int
	Losses int
	Draws  int
}

// GameRecord is one finished game of a series.
type GameRecord struct {
	Number   int
	GameID   string
	Winner   string
	Turns    int
	Life     [2]int
	Checksum string
}

// SeriesSnapshot captures a consistent view of a series.
type SeriesSnapshot struct {
	ID           string
	Name         string
	State        SeriesState
	Players      [2]Standing
	Games        []GameRecord
	WinsRequired int
	MaxGames     int
	Winner       string
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
}

// Series is a best-of-N match between two decks.
type Series struct {
	ID           string
	Name         string
	State        SeriesState
	Players      [2]*Standing
	Games        []*GameRecord
	WinsRequired int
	MaxGames     int
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
	mu           sync.RWMutex
}

// NewSeries creates a series that ends when a side reaches winsRequired wins
// or after 2*winsRequired-1 games.
func NewSeries(name string, players [2]string, winsRequired int) *Series {
	if winsRequired <= 0 {
		winsRequired = 1
	}
	return &Series{
		ID:           uuid.New().String(),
		Name:         name,
		State:        SeriesStateWaiting,
		Players:      [2]*Standing{{Name: players[0]}, {Name: players[1]}},
		Games:        make([]*GameRecord, 0),
		WinsRequired: winsRequired,
		MaxGames:     2*winsRequired - 1,
		CreateTime:   time.Now(),
	}
}

// RecordGame adds the result of the next game and updates the standings.
func (s *Series) RecordGame(res *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State == SeriesStateFinished {
		return fmt.Errorf("series already finished")
	}
	if s.State == SeriesStateWaiting {
		now := time.Now()
		s.StartTime = &now
		s.State = SeriesStateInProgress
	}

	record := &GameRecord{
		Number:   len(s.Games) + 1,
		GameID:   res.GameID,
		Turns:    res.Turns,
		Life:     res.Life,
		Checksum: res.Checksum,
	}
	switch res.Winner {
	case 0, 1:
		winner, loser := s.Players[res.Winner], s.Players[1-res.Winner]
		winner.Wins++
		winner.Points += 3
		loser.Losses++
		record.Winner = winner.Name
	default:
		for _, p := range s.Players {
			p.Draws++
			p.Points++
		}
	}
	s.Games = append(s.Games, record)

	if s.Players[0].Wins >= s.WinsRequired || s.Players[1].Wins >= s.WinsRequired || len(s.Games) >= s.MaxGames {
		now := time.Now()
		s.EndTime = &now
		s.State = SeriesStateFinished
	}
	return nil
}

// GetState returns the current series state
func (s *Series) GetState() SeriesState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

// Winner returns the side with more points once the series is finished.
func (s *Series) Winner() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.winner()
}

func (s *Series) winner() (string, bool) {
	if s.State != SeriesStateFinished {
		return "", false
	}
	a, b := s.Players[0], s.Players[1]
	switch {
	case a.Points > b.Points:
		return a.Name, true
	case b.Points > a.Points:
		return b.Name, true
	default:
		return "", true
	}
}

// Play runs games until the series finishes. Game i uses seed opts.Game.Seed+i,
// so a series replays exactly from its first seed.
func (s *Series) Play(ctx context.Context, logger *zap.Logger, opts Options, decks [2][]*carddb.Card) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for i := 0; s.GetState() != SeriesStateFinished; i++ {
		o := opts
		o.Game.Seed = opts.Game.Seed + int64(i)
		o.GameID = fmt.Sprintf("%s-g%d", s.ID, i+1)

		res, err := NewRunner(logger, o, nil).Run(ctx, decks)
		if err != nil {
			return fmt.Errorf("series %s game %d: %w", s.ID, i+1, err)
		}
		if err := s.RecordGame(res); err != nil {
			return err
		}
		logger.Info("series game finished",
			zap.String("series_id", s.ID),
			zap.Int("game", i+1),
			zap.Int("winner", res.Winner),
			zap.Int("turns", res.Turns),
		)
	}
	return nil
}

// Snapshot returns a consistent copy of the series state.
func (s *Series) Snapshot() SeriesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]GameRecord, 0, len(s.Games))
	for _, g := range s.Games {
		games = append(games, *g)
	}
	winner, _ := s.winner()
	return SeriesSnapshot{
		ID:           s.ID,
		Name:         s.Name,
		State:        s.State,
		Players:      [2]Standing{*s.Players[0], *s.Players[1]},
		Games:        games,
		WinsRequired: s.WinsRequired,
		MaxGames:     s.MaxGames,
		Winner:       winner,
		CreateTime:   s.CreateTime,
		StartTime:    cloneTime(s.StartTime),
		EndTime:      cloneTime(s.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// Manager manages series
type Manager struct {
	series map[string]*Series
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewManager creates a new series manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		series: make(map[string]*Series),
		logger: logger,
	}
}

// CreateSeries creates and registers a new series
func (m *Manager) CreateSeries(name string, players [2]string, winsRequired int) *Series {
	m.mu.Lock()
	defer m.mu.Unlock()

	series := NewSeries(name, players, winsRequired)
	m.series[series.ID] = series

	m.logger.Info("series created",
		zap.String("series_id", series.ID),
		zap.String("name", name),
		zap.Strings("players", players[:]),
		zap.Int("wins_required", series.WinsRequired),
	)
	return series
}

// GetSeries retrieves a series by ID
func (m *Manager) GetSeries(seriesID string) (*Series, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	series, ok := m.series[seriesID]
	return series, ok
}

// RemoveSeries removes a series
func (m *Manager) RemoveSeries(seriesID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.series, seriesID)

	m.logger.Info("series removed", zap.String("series_id", seriesID))
}

// GetActiveSeriesCount returns the count of unfinished series
func (m *Manager) GetActiveSeriesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, series := range m.series {
		if series.GetState() != SeriesStateFinished {
			count++
		}
	}
	return count
}
