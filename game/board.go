package game

import (
	"fmt"
	"strconv"
	"strings"
)

func errIndexOutOfRange(index, rows, cols int) error {
	return fmt.Errorf("%w: index %d for map size (%d, %d)", ErrInvalidArgument, index, rows, cols)
}

func errPositionOutOfRange(pos Position, rows, cols int) error {
	return fmt.Errorf("%w: position (%d, %d) for map size (%d, %d)", ErrInvalidArgument, pos.Row, pos.Col, rows, cols)
}

// parseBoard fills the grid from the delimited board specification. Any
// inconsistency fails the whole construction; s is discarded by the caller on
// error.
func (s *GameState) parseBoard(boardStr string) error {
	fields := strings.Split(boardStr, "|")
	if len(fields) < 4 {
		return fmt.Errorf("%w: expected at least 4 fields, got %d", ErrInvalidBoard, len(fields))
	}

	rows, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: rows %q: %v", ErrInvalidBoard, fields[0], err)
	}
	cols, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: cols %q: %v", ErrInvalidBoard, fields[1], err)
	}
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: non-positive dimensions (%d, %d)", ErrInvalidBoard, rows, cols)
	}
	if len(fields) != rows*cols+3 {
		return fmt.Errorf("%w: expected %d fields for a %dx%d board, got %d",
			ErrInvalidBoard, rows*cols+3, rows, cols, len(fields))
	}
	gemsRequired, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("%w: gems required %q: %v", ErrInvalidBoard, fields[2], err)
	}

	s.rows = rows
	s.cols = cols
	s.gemsRequired = gemsRequired
	s.grid = make([]HiddenCellType, 0, rows*cols)
	s.hasUpdated = make([]bool, rows*cols)

	agentCount := 0
	for i, field := range fields[3:] {
		code, err := strconv.Atoi(field)
		if err != nil || !IsValidHidden(code) {
			return fmt.Errorf("%w: unknown element type %q at cell %d", ErrInvalidBoard, field, i)
		}
		kind := HiddenCellType(code)
		s.grid = append(s.grid, kind)
		if kind == HiddenAgent || kind == HiddenAgentInExit {
			s.agentIdx = i
			s.agentAlive = true
			s.agentInExit = kind == HiddenAgentInExit
			agentCount++
		}
	}

	if agentCount == 0 {
		return fmt.Errorf("%w: agent element not found", ErrInvalidBoard)
	}
	if agentCount > 1 {
		return fmt.Errorf("%w: %d agent elements, expected exactly one", ErrInvalidBoard, agentCount)
	}
	return nil
}

// BoardString serializes the grid back to the board specification format.
func (s *GameState) BoardString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|%d", s.rows, s.cols, s.gemsRequired)
	for _, k := range s.grid {
		fmt.Fprintf(&b, "|%d", int(k))
	}
	return b.String()
}
