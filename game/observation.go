package game

// ObservationShape returns the (channels, rows, cols) shape of the flat
// observation buffer.
func (s *GameState) ObservationShape() [3]int {
	return [3]int{NumVisibleCellTypes, s.rows, s.cols}
}

// Observation returns a channel-major one-hot encoding over visible kinds:
// obs[v*rows*cols + i] is 1 when the visible kind at flat index i is v.
func (s *GameState) Observation() []float32 {
	channelLength := s.rows * s.cols
	obs := make([]float32, NumVisibleCellTypes*channelLength)
	for i := range channelLength {
		obs[int(Lookup(s.grid[i]).Visible)*channelLength+i] = 1
	}
	return obs
}

// VisibleItem returns the visible kind at a flat index.
func (s *GameState) VisibleItem(index int) (VisibleCellType, error) {
	if index < 0 || index >= s.rows*s.cols {
		return VisibleNull, errIndexOutOfRange(index, s.rows, s.cols)
	}
	return Lookup(s.grid[index]).Visible, nil
}
