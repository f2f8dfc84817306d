package game

import (
	"context"
	"testing"

	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func recordSteps(t *testing.T, e *Engine, rr *ReplayRecorder, steps int) {
	t.Helper()
	ctx := context.Background()
	rr.RecordState(e.State())
	for range steps {
		e.AdvanceToNextStep(ctx)
		e.State().CheckStateBasedActions()
		rr.RecordState(e.State())
	}
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	e := startedEngine(t, 7)
	rr := NewReplayRecorder(zaptest.NewLogger(t), "game-7", 7, dir)
	recordSteps(t, e, rr, 2*len(rules.Steps()))

	replay := rr.Replay()
	require.Equal(t, 2*len(rules.Steps())+1, replay.Size())
	idx, err := replay.Verify()
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
	require.NoError(t, rr.Save())

	loaded, err := LoadReplayFromFile(dir, "game-7")
	require.NoError(t, err)
	assert.Equal(t, "game-7", loaded.GameID)
	assert.Equal(t, int64(7), loaded.Seed)
	require.Equal(t, replay.Size(), loaded.Size())

	idx, err = loaded.Verify()
	require.NoError(t, err)
	assert.Equal(t, -1, idx, "frames keep their checksums through the file")

	last, ok := loaded.FrameAt(loaded.Size() - 1)
	require.True(t, ok)
	assert.Equal(t, e.State().Checksum(), last.Checksum)
}

func TestReplayVerifyDetectsTampering(t *testing.T) {
	e := startedEngine(t, 3)
	rr := NewReplayRecorder(zaptest.NewLogger(t), "game-3", 3, "")
	recordSteps(t, e, rr, 3)
	require.NoError(t, rr.Save(), "no directory means nothing to save")

	replay := rr.Replay()
	replay.Frames[2].View.Players[0].Life = 99
	idx, err := replay.Verify()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestReplayCursor(t *testing.T) {
	e := startedEngine(t, 5)
	rr := NewReplayRecorder(zaptest.NewLogger(t), "game-5", 5, "")
	recordSteps(t, e, rr, 2)
	replay := rr.Replay()

	_, ok := replay.Previous()
	assert.False(t, ok)

	first, ok := replay.Next()
	require.True(t, ok)
	assert.Equal(t, rules.StepUntap.String(), first.Step)
	second, ok := replay.Next()
	require.True(t, ok)
	assert.Equal(t, rules.StepUpkeep.String(), second.Step)
	_, ok = replay.Next()
	require.True(t, ok)
	_, ok = replay.Next()
	assert.False(t, ok)

	back, ok := replay.Previous()
	require.True(t, ok)
	assert.Equal(t, rules.StepDraw.String(), back.Step)

	replay.Start()
	again, ok := replay.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)

	_, ok = replay.FrameAt(-1)
	assert.False(t, ok)
}

func TestLoadReplayMissingFile(t *testing.T) {
	_, err := LoadReplayFromFile(t.TempDir(), "nope")
	assert.Error(t, err)
}
