package modtool

// Effect is a packed 12-bit command: bits 8..11 are the command family
// (0x0-0xF) and the low byte is the parameter. For the extended family 0xE,
// bits 4..7 select the extended sub-command.
type Effect uint16

const (
	// ExtendedFamily is the command family whose parameter high nibble
	// selects a sub-command.
	ExtendedFamily = 0xE

	// MarkerEffect is the E81 command used as a loop / sync marker.
	MarkerEffect Effect = 0x0E81
)

// Family returns the command family, 0x0-0xF.
func (e Effect) Family() int {
	return int(e>>8) & 0xF
}

// Param returns the parameter byte.
func (e Effect) Param() int {
	return int(e & 0xFF)
}

// SubFamily returns the extended sub-command, bits 4..7. Meaningful only
// when Family() == ExtendedFamily.
func (e Effect) SubFamily() int {
	return int(e>>4) & 0xF
}

// IsMarker reports whether the effect is any of the E80-E8F commands.
func (e Effect) IsMarker() bool {
	return e&0x0FF0 == 0x0E80
}

// Cell addresses a single channel in a module.
type Cell struct {
	Pattern, Row, Channel int
}

// NewPattern returns a pattern of the given size with every cell empty.
func NewPattern(rows, channels int) Pattern {
	data := make([]Channel, rows*channels)
	ret := Pattern{Rows: make([]Row, rows)}
	for i := range ret.Rows {
		ret.Rows[i].Channels, data = data[:channels:channels], data[channels:]
	}
	return ret
}

// IsEmpty reports whether the cell carries no period, sample or effect.
func (c Channel) IsEmpty() bool {
	return c.Period == 0 && c.SampleNumber == 0 && c.Effect == 0
}

// Get returns the channel at the given row; or an empty channel if the index
// is out of range.
func (p Pattern) Get(row, channel int) Channel {
	if row < 0 || row >= len(p.Rows) {
		return Channel{}
	}
	channels := p.Rows[row].Channels
	if channel < 0 || channel >= len(channels) {
		return Channel{}
	}
	return channels[channel]
}

// IsEmpty reports whether every cell of the pattern is empty.
func (p Pattern) IsEmpty() bool {
	for _, row := range p.Rows {
		for _, c := range row.Channels {
			if !c.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// Cells calls yield for every channel in row-major order until yield returns
// false. The Cell has its Pattern field left at 0.
func (p *Pattern) Cells(yield func(Cell, *Channel) bool) {
	for r := range p.Rows {
		row := &p.Rows[r]
		for c := range row.Channels {
			if !yield(Cell{Row: r, Channel: c}, &row.Channels[c]) {
				return
			}
		}
	}
}

// Copy makes a deep copy of a Pattern.
func (p Pattern) Copy() Pattern {
	if p.Rows == nil {
		return Pattern{}
	}
	rows := make([]Row, len(p.Rows))
	for i, r := range p.Rows {
		if r.Channels != nil {
			rows[i].Channels = make([]Channel, len(r.Channels))
			copy(rows[i].Channels, r.Channels)
		}
	}
	return Pattern{Rows: rows}
}
