package render

import (
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

func TestRawRGB_ShapeAndTileColors(t *testing.T) {
	// Agent next to a diamond on a single row.
	s := mustState(t, "1|2|1|0|5")

	shape := ImageShape(s)
	if shape != [3]int{TileSize, 2 * TileSize, 3} {
		t.Fatalf("ImageShape = %v", shape)
	}

	buf, err := RawRGB(s)
	if err != nil {
		t.Fatalf("RawRGB: %v", err)
	}
	if len(buf) != shape[0]*shape[1]*shape[2] {
		t.Fatalf("buffer length %d, want %d", len(buf), shape[0]*shape[1]*shape[2])
	}

	// Top-left pixel of each tile carries its cell color.
	agent := palette[game.VisibleAgent]
	if buf[0] != agent[0] || buf[1] != agent[1] || buf[2] != agent[2] {
		t.Fatalf("agent tile pixel = %v, want %v", buf[:3], agent)
	}
	p := TileSize * 3
	diamond := palette[game.VisibleDiamond]
	if buf[p] != diamond[0] || buf[p+1] != diamond[1] || buf[p+2] != diamond[2] {
		t.Fatalf("diamond tile pixel = %v, want %v", buf[p:p+3], diamond)
	}

	// Bottom-right corner of the agent tile still belongs to the agent.
	last := ((TileSize-1)*2*TileSize + (TileSize - 1)) * 3
	if buf[last] != agent[0] || buf[last+1] != agent[1] || buf[last+2] != agent[2] {
		t.Fatalf("agent tile corner = %v, want %v", buf[last:last+3], agent)
	}
}

func TestImage_MatchesRawBuffer(t *testing.T) {
	s := mustState(t, "1|2|1|0|5")

	img, err := Image(s)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2*TileSize || bounds.Dy() != TileSize {
		t.Fatalf("image bounds = %v", bounds)
	}

	c := img.RGBAAt(TileSize, 0)
	diamond := palette[game.VisibleDiamond]
	if c.R != diamond[0] || c.G != diamond[1] || c.B != diamond[2] || c.A != 0xFF {
		t.Fatalf("diamond pixel = %v, want %v opaque", c, diamond)
	}
}
