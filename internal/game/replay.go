package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const replayVersion = 1

// ReplayFrame is the state after one step together with its checksum.
type ReplayFrame struct {
	Turn     int
	Step     string
	Checksum string
	View     GameView
}

// Replay is a recorded game as a sequence of frames.
type Replay struct {
	GameID       string
	Seed         int64
	Frames       []ReplayFrame
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates a new replay instance
func NewReplay(gameID string, seed int64) *Replay {
	return &Replay{
		GameID: gameID,
		Seed:   seed,
		Frames: make([]ReplayFrame, 0),
	}
}

// Record appends a frame for the current state of gs.
func (r *Replay) Record(gs *GameState) {
	view := gs.View()
	sum, _ := ChecksumView(view)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Frames = append(r.Frames, ReplayFrame{
		Turn:     view.Turn,
		Step:     view.Step,
		Checksum: sum,
		View:     view,
	})
}

// Start resets the replay to the beginning
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the frame at the cursor and moves forward.
func (r *Replay) Next() (ReplayFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Frames) {
		frame := r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return frame, true
	}
	return ReplayFrame{}, false
}

// Previous moves the cursor back and returns that frame.
func (r *Replay) Previous() (ReplayFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Frames[r.CurrentIndex], true
	}
	return ReplayFrame{}, false
}

// Size returns the number of recorded frames
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Frames)
}

// FrameAt returns the frame at index.
func (r *Replay) FrameAt(index int) (ReplayFrame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Frames) {
		return r.Frames[index], true
	}
	return ReplayFrame{}, false
}

// Verify recomputes every frame checksum and returns the index of the first
// mismatch, or -1.
func (r *Replay) Verify() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, frame := range r.Frames {
		sum, err := ChecksumView(frame.View)
		if err != nil {
			return i, err
		}
		if sum != frame.Checksum {
			return i, nil
		}
	}
	return -1, nil
}

// replayMetadata contains information about a saved replay
type replayMetadata struct {
	GameID     string
	Seed       int64
	Timestamp  time.Time
	Version    int
	FrameCount int
}

func replayPath(directory, gameID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
}

// SaveToFile writes the replay to <directory>/<game id>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(replayPath(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		Timestamp:  time.Now(),
		Version:    replayVersion,
		FrameCount: len(r.Frames),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Frames {
		if err := encoder.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile loads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Seed)
	for i := 0; i < metadata.FrameCount; i++ {
		var frame ReplayFrame
		if err := decoder.Decode(&frame); err != nil {
			return nil, fmt.Errorf("failed to decode frame %d: %w", i, err)
		}
		replay.Frames = append(replay.Frames, frame)
	}
	return replay, nil
}

// ReplayRecorder records frames for one game and saves them when it ends.
// A recorder with an empty directory records in memory only.
type ReplayRecorder struct {
	logger  *zap.Logger
	replay  *Replay
	saveDir string
}

// NewReplayRecorder creates a new replay recorder
func NewReplayRecorder(logger *zap.Logger, gameID string, seed int64, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replay:  NewReplay(gameID, seed),
		saveDir: saveDir,
	}
}

// RecordState records a frame of gs.
func (rr *ReplayRecorder) RecordState(gs *GameState) {
	rr.replay.Record(gs)
	rr.logger.Debug("recorded replay frame",
		zap.String("game_id", rr.replay.GameID),
		zap.Int("frame_count", rr.replay.Size()),
	)
}

// Replay returns the recording so far.
func (rr *ReplayRecorder) Replay() *Replay {
	return rr.replay
}

// Save writes the replay to the save directory, if one is configured.
func (rr *ReplayRecorder) Save() error {
	if rr.saveDir == "" {
		return nil
	}
	if err := rr.replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", rr.replay.GameID),
		zap.Int("frame_count", rr.replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}
