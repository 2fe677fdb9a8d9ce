package convert

import (
	"encoding/binary"
	"math"
	"testing"

	"boulderdash/game"
)

func mustState(t *testing.T, board string) *game.GameState {
	t.Helper()
	s, err := game.NewGameState(board, game.DefaultParameters())
	if err != nil {
		t.Fatalf("NewGameState: %v", err)
	}
	return s
}

func TestStateToFloat32_OneHotLayout(t *testing.T) {
	// Agent at cell 0, diamond at cell 1.
	s := mustState(t, "1|2|1|0|5")
	e := NewEncoder(1, 2)

	if e.FloatSize() != game.NumVisibleCellTypes*2 {
		t.Fatalf("FloatSize = %d, want %d", e.FloatSize(), game.NumVisibleCellTypes*2)
	}
	if e.Shape() != [3]int{game.NumVisibleCellTypes, 1, 2} {
		t.Fatalf("Shape = %v", e.Shape())
	}

	bufPtr := e.StateToFloat32(s)
	defer e.PutFloatBuffer(bufPtr)
	buf := *bufPtr

	if len(buf) != e.FloatSize() {
		t.Fatalf("buffer length %d, want %d", len(buf), e.FloatSize())
	}

	channelLength := 2
	if got := buf[int(game.VisibleAgent)*channelLength+0]; got != 1 {
		t.Fatalf("agent plane cell 0 = %v, want 1", got)
	}
	if got := buf[int(game.VisibleDiamond)*channelLength+1]; got != 1 {
		t.Fatalf("diamond plane cell 1 = %v, want 1", got)
	}

	sum := float32(0)
	for _, v := range buf {
		sum += v
	}
	if sum != 2 {
		t.Fatalf("one-hot sum = %v, want exactly one hit per cell", sum)
	}
}

func TestStateToBytes_LittleEndianFloats(t *testing.T) {
	s := mustState(t, "1|2|1|0|5")
	e := NewEncoder(1, 2)

	bufPtr := e.StateToBytes(s)
	defer e.PutBuffer(bufPtr)
	buf := *bufPtr

	if len(buf) != e.FloatSize()*BytesPerFloat {
		t.Fatalf("buffer length %d, want %d", len(buf), e.FloatSize()*BytesPerFloat)
	}

	at := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*BytesPerFloat:]))
	}
	if got := at(int(game.VisibleAgent)*2 + 0); got != 1 {
		t.Fatalf("agent cell decodes to %v, want 1", got)
	}
	if got := at(int(game.VisibleDiamond)*2 + 1); got != 1 {
		t.Fatalf("diamond cell decodes to %v, want 1", got)
	}
	if got := at(0*2 + 1); got != 0 {
		t.Fatalf("empty slot decodes to %v, want 0", got)
	}
}

func TestEncoder_PooledBuffersAreCleared(t *testing.T) {
	s := mustState(t, "1|2|1|0|5")
	e := NewEncoder(1, 2)

	first := e.StateToFloat32(s)
	e.PutFloatBuffer(first)

	// Second encode may reuse the pooled slice; the one-hot must not
	// accumulate stale hits.
	second := e.StateToFloat32(s)
	defer e.PutFloatBuffer(second)

	sum := float32(0)
	for _, v := range *second {
		sum += v
	}
	if sum != 2 {
		t.Fatalf("reused buffer sum = %v, want 2", sum)
	}
}
