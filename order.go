package modtool

// MaxPositions is the fixed capacity of the position table.
const MaxPositions = 128

// PositionTable is the song play order: a fixed-capacity list of pattern
// indices. Only the first Module.Length entries are meaningful; the rest are
// kept as they were read so that codecs can reproduce them.
type PositionTable struct {
	Data [MaxPositions]uint8 `json:"data" yaml:"data,flow"`
}

// Set sets the pattern index at position, reporting false if the position is
// outside the table.
func (t *PositionTable) Set(position int, pattern uint8) bool {
	if position < 0 || position >= MaxPositions {
		return false
	}
	t.Data[position] = pattern
	return true
}

// Contains reports whether pattern occurs in the first length entries.
func (t *PositionTable) Contains(length int, pattern int) bool {
	if length > MaxPositions {
		length = MaxPositions
	}
	for _, p := range t.Data[:length] {
		if int(p) == pattern {
			return true
		}
	}
	return false
}
