// Package convert encodes game states into the tensor layouts consumed by the
// inference runtime and the training pipeline.
package convert

import (
	"encoding/binary"
	"math"
	"sync"

	"boulderdash/game"
)

const BytesPerFloat = 4

// Encoder turns states of one fixed board shape into pooled tensor buffers.
// Boards of a different shape need their own Encoder; the pools are sized for
// the shape given at construction.
type Encoder struct {
	rows      int
	cols      int
	floatSize int

	floatPool sync.Pool
	bytePool  sync.Pool
}

// NewEncoder creates an encoder for rows x cols boards.
func NewEncoder(rows, cols int) *Encoder {
	floatSize := game.NumVisibleCellTypes * rows * cols
	e := &Encoder{
		rows:      rows,
		cols:      cols,
		floatSize: floatSize,
	}
	e.floatPool.New = func() interface{} {
		b := make([]float32, floatSize)
		return &b
	}
	e.bytePool.New = func() interface{} {
		b := make([]byte, floatSize*BytesPerFloat)
		return &b
	}
	return e
}

// FloatSize is the element count of one encoded observation.
func (e *Encoder) FloatSize() int { return e.floatSize }

// Shape returns the (channels, rows, cols) tensor shape.
func (e *Encoder) Shape() [3]int {
	return [3]int{game.NumVisibleCellTypes, e.rows, e.cols}
}

// PutFloatBuffer returns a float buffer to the pool.
func (e *Encoder) PutFloatBuffer(b *[]float32) {
	e.floatPool.Put(b)
}

// PutBuffer returns a byte buffer to the pool.
func (e *Encoder) PutBuffer(b *[]byte) {
	e.bytePool.Put(b)
}

// StateToFloat32 encodes the state as a one-hot visible-kind tensor in a
// pooled float32 slice. Output shape: [Channels, Rows, Cols] (C, H, W).
// Caller must return the slice to the pool using PutFloatBuffer.
func (e *Encoder) StateToFloat32(state *game.GameState) *[]float32 {
	dataPtr := e.floatPool.Get().(*[]float32)
	data := *dataPtr
	clear(data)

	channelLength := e.rows * e.cols
	for i := range channelLength {
		visible, err := state.VisibleItem(i)
		if err != nil {
			continue
		}
		data[int(visible)*channelLength+i] = 1.0
	}
	return dataPtr
}

// StateToBytes encodes the state as little-endian float32 bytes for transport
// to an external inference server. Same layout as StateToFloat32. Caller must
// return the slice to the pool using PutBuffer.
func (e *Encoder) StateToBytes(state *game.GameState) *[]byte {
	dataPtr := e.bytePool.Get().(*[]byte)
	data := *dataPtr
	clear(data)

	oneBits := math.Float32bits(1.0)
	channelLength := e.rows * e.cols
	for i := range channelLength {
		visible, err := state.VisibleItem(i)
		if err != nil {
			continue
		}
		idx := (int(visible)*channelLength + i) * BytesPerFloat
		binary.LittleEndian.PutUint32(data[idx:], oneBits)
	}
	return dataPtr
}
