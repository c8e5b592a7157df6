package export

import (
	"fmt"
	"io"

	"github.com/vsariola/modtool"
	"github.com/vsariola/modtool/analysis"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	rowsPerBeat = 4
	// baseKey is the MIDI key of the lowest note of analysis.Periods.
	baseKey   = 36
	maxVolume = 64
)

// MIDIOptions control the timing of the exported file.
type MIDIOptions struct {
	BPM         float64
	TicksPerRow uint16
	Velocity    uint8 // velocity of a note played at full volume
}

// DefaultMIDIOptions matches the default speed 6 at 125 BPM.
var DefaultMIDIOptions = MIDIOptions{BPM: 125, TicksPerRow: 24, Velocity: 100}

type channelTrack struct {
	track  smf.Track
	last   uint32 // absolute tick of the latest event
	key    int    // sounding key, -1 if none
	sample uint8
}

func (c *channelTrack) add(tick uint32, msg midi.Message) {
	c.track.Add(tick-c.last, msg)
	c.last = tick
}

// WriteMIDI renders the play order of a module as a format 1 Standard MIDI
// File: a tempo track followed by one track per module channel. A note
// lasts until the next note of the same channel or the end of the song.
// Pattern breaks end the pattern early; position jumps are ignored.
func WriteMIDI(w io.Writer, m *modtool.Module, opts MIDIOptions) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if opts.BPM <= 0 {
		opts.BPM = DefaultMIDIOptions.BPM
	}
	if opts.TicksPerRow == 0 {
		opts.TicksPerRow = DefaultMIDIOptions.TicksPerRow
	}
	if opts.Velocity == 0 || opts.Velocity > 127 {
		opts.Velocity = DefaultMIDIOptions.Velocity
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.TicksPerRow * rowsPerBeat)
	var tempo smf.Track
	tempo.Add(0, smf.MetaTrackSequenceName(m.Name))
	tempo.Add(0, smf.MetaTempo(opts.BPM))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return fmt.Errorf("could not add the tempo track: %w", err)
	}
	channels := make([]channelTrack, m.NumChannels())
	for i := range channels {
		channels[i].key = -1
		channels[i].track.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("Channel %d", i+1)))
	}
	var tick uint32
	for _, pos := range m.ActivePositions() {
		p := m.Patterns[pos]
		for r := range p.Rows {
			patternBreak := false
			for c := range channels {
				cell := p.Get(r, c)
				if cell.Effect.Family() == 0xD {
					patternBreak = true
				}
				if cell.Period == 0 {
					continue
				}
				noteOn(&channels[c], m, cell, uint8(c%16), tick, opts.Velocity)
			}
			tick += uint32(opts.TicksPerRow)
			if patternBreak {
				break
			}
		}
	}
	for c := range channels {
		ch := &channels[c]
		if ch.key >= 0 {
			ch.add(tick, midi.NoteOff(uint8(c%16), uint8(ch.key)))
		}
		ch.track.Close(0)
		if err := s.Add(ch.track); err != nil {
			return fmt.Errorf("could not add the track of channel %d: %w", c+1, err)
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("could not write midi file: %w", err)
	}
	return nil
}

func noteOn(ch *channelTrack, m *modtool.Module, cell modtool.Channel, midiChannel uint8, tick uint32, velocity uint8) {
	note, err := analysis.ResolveNote(cell.Period, false)
	if err != nil {
		return
	}
	if ch.key >= 0 {
		ch.add(tick, midi.NoteOff(midiChannel, uint8(ch.key)))
		ch.key = -1
	}
	volume := maxVolume
	if n, err := modtool.ParseSampleNumber(int(cell.SampleNumber)); err == nil && n.Index() < len(m.SampleInfo) {
		volume = int(m.SampleInfo[n.Index()].Volume)
		if uint8(n) != ch.sample {
			ch.add(tick, midi.ProgramChange(midiChannel, uint8(n.Index())))
			ch.sample = uint8(n)
		}
	}
	if cell.Effect.Family() == 0xC {
		volume = int(cell.Effect.Param())
	}
	if volume > maxVolume {
		volume = maxVolume
	}
	if volume == 0 {
		return
	}
	v := int(velocity) * volume / maxVolume
	if v < 1 {
		v = 1
	}
	key := baseKey + note.Index
	ch.add(tick, midi.NoteOn(midiChannel, uint8(key), uint8(v)))
	ch.key = key
}
