// Package render rasterizes board states into RGB buffers for debugging and
// episode visualization.
package render

import (
	"fmt"
	"image"
	"image/color"

	"boulderdash/game"
)

// TileSize is the square pixel size of one board cell.
const TileSize = 32

// palette maps each visible kind to a flat tile color.
var palette = [game.NumVisibleCellTypes][3]uint8{
	game.VisibleAgent:         {0xFF, 0xFF, 0x00},
	game.VisibleEmpty:         {0x00, 0x00, 0x00},
	game.VisibleDirt:          {0x8B, 0x5A, 0x2B},
	game.VisibleStone:         {0x9E, 0x9E, 0x9E},
	game.VisibleDiamond:       {0x00, 0xE5, 0xFF},
	game.VisibleExitClosed:    {0x4A, 0x14, 0x4A},
	game.VisibleExitOpen:      {0xD0, 0x50, 0xD0},
	game.VisibleAgentInExit:   {0xFF, 0xFF, 0xFF},
	game.VisibleFirefly:       {0xFF, 0x45, 0x00},
	game.VisibleButterfly:     {0xFF, 0x8C, 0x00},
	game.VisibleWallBrick:     {0xB2, 0x22, 0x22},
	game.VisibleWallSteel:     {0x4F, 0x5B, 0x62},
	game.VisibleWallMagicOff:  {0x46, 0x3E, 0x8D},
	game.VisibleWallMagicOn:   {0x7B, 0x68, 0xEE},
	game.VisibleBlob:          {0x32, 0xCD, 0x32},
	game.VisibleExplosion:     {0xFF, 0xD7, 0x00},
	game.VisibleGateRedClosed: {0x8B, 0x00, 0x00},
	game.VisibleGateRedOpen:   {0xFF, 0x00, 0x00},
	game.VisibleKeyRed:        {0xFF, 0x69, 0x61},
	game.VisibleGateBluClosed: {0x00, 0x00, 0x8B},
	game.VisibleGateBluOpen:   {0x00, 0x00, 0xFF},
	game.VisibleKeyBlue:       {0x41, 0x69, 0xE1},
	game.VisibleGateGrnClosed: {0x00, 0x64, 0x00},
	game.VisibleGateGrnOpen:   {0x00, 0xFF, 0x00},
	game.VisibleKeyGreen:      {0x66, 0xCD, 0xAA},
	game.VisibleGateYelClosed: {0x8B, 0x80, 0x00},
	game.VisibleGateYelOpen:   {0xFF, 0xFF, 0x00},
	game.VisibleKeyYellow:     {0xEE, 0xE8, 0xAA},
	game.VisibleNut:           {0xDE, 0xB8, 0x87},
	game.VisibleBomb:          {0x2F, 0x2F, 0x2F},
	game.VisibleOrange:        {0xFF, 0xA5, 0x00},
	game.VisiblePebbleInDirt:  {0x8B, 0x5A, 0x2B},
	game.VisibleStoneInDirt:   {0x8B, 0x5A, 0x2B},
	game.VisibleVoidInDirt:    {0x8B, 0x5A, 0x2B},
}

// ImageShape returns the (height, width, channels) shape of the raw buffer
// for a state rendered at TileSize.
func ImageShape(s *game.GameState) [3]int {
	return [3]int{s.Rows() * TileSize, s.Cols() * TileSize, 3}
}

// RawRGB renders the board as a flat HWC uint8 buffer, one solid color tile
// per cell.
func RawRGB(s *game.GameState) ([]byte, error) {
	height := s.Rows() * TileSize
	width := s.Cols() * TileSize
	buf := make([]byte, height*width*3)

	for i := range s.Rows() * s.Cols() {
		visible, err := s.VisibleItem(i)
		if err != nil {
			return nil, fmt.Errorf("render cell %d: %w", i, err)
		}
		c := palette[visible]
		baseRow := (i / s.Cols()) * TileSize
		baseCol := (i % s.Cols()) * TileSize
		for dy := range TileSize {
			rowStart := ((baseRow+dy)*width + baseCol) * 3
			for dx := range TileSize {
				p := rowStart + dx*3
				buf[p] = c[0]
				buf[p+1] = c[1]
				buf[p+2] = c[2]
			}
		}
	}
	return buf, nil
}

// Image renders the board as an image.RGBA for encoding to PNG and friends.
func Image(s *game.GameState) (*image.RGBA, error) {
	raw, err := RawRGB(s)
	if err != nil {
		return nil, err
	}
	height := s.Rows() * TileSize
	width := s.Cols() * TileSize
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			p := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: raw[p], G: raw[p+1], B: raw[p+2], A: 0xFF})
		}
	}
	return img, nil
}
