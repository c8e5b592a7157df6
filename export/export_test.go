package export_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vsariola/modtool"
	"github.com/vsariola/modtool/export"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func testModule() *modtool.Module {
	m := &modtool.Module{Name: "demo", Length: 2}
	copy(m.Positions.Data[:], []uint8{0, 1})
	for i := 0; i < 2; i++ {
		m.Patterns = append(m.Patterns, modtool.NewPattern(4, 2))
	}
	m.Patterns[0].Rows[0].Channels[0] = modtool.Channel{Period: 428, SampleNumber: 1}
	m.Patterns[0].Rows[2].Channels[0] = modtool.Channel{Period: 214, SampleNumber: 1, Effect: 0x0C20}
	m.Patterns[1].Rows[1].Channels[1] = modtool.Channel{Effect: 0x0D00}
	m.SampleInfo = []modtool.SampleInfo{
		{Name: "Bässo/01", Length: 2, Volume: 64, Data: modtool.SampleData{1, 2, 3, 4}},
		{Name: "empty"},
	}
	return m
}

func TestSampleFileName(t *testing.T) {
	for _, tt := range []struct {
		prefix  string
		number  int
		name    string
		useName bool
		format  export.SampleFormat
		want    string
	}{
		{"song", 3, "kick", false, export.Raw, "song_3.raw"},
		{"song", 3, "kick", true, export.Raw, "kick.raw"},
		{"song", 1, "Bässo/01", true, export.Raw, "Basso_01.raw"},
		{"song", 7, "  ..  ", true, export.WAV, "song_7.wav"},
		{"s", 2, "a:b*c?", true, export.WAV, "a_b_c_.wav"},
	} {
		if got := export.SampleFileName(tt.prefix, tt.number, tt.name, tt.useName, tt.format); got != tt.want {
			t.Errorf("SampleFileName(%q, %v, %q, %v): got: %q expected: %q", tt.prefix, tt.number, tt.name, tt.useName, got, tt.want)
		}
	}
}

func TestSaveSamples(t *testing.T) {
	dir := t.TempDir()
	m := testModule()
	results := export.SaveSamples(dir, m, nil, export.SaveOptions{Prefix: "demo"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got: %v", results)
	}
	if results[0].Err != nil || results[0].Skipped {
		t.Fatalf("sample 1 should have been saved: %+v", results[0])
	}
	data, err := os.ReadFile(filepath.Join(dir, "demo_1.raw"))
	if err != nil {
		t.Fatalf("could not read saved sample: %v", err)
	}
	if !reflect.DeepEqual(data, []byte{1, 2, 3, 4}) {
		t.Fatalf("wrong sample data. got: %v expected: %v", data, []byte{1, 2, 3, 4})
	}
	if !results[1].Skipped {
		t.Fatalf("empty sample 2 should have been skipped: %+v", results[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "demo_2.raw")); !os.IsNotExist(err) {
		t.Fatalf("no file should be written for an empty sample")
	}
	// second save must not overwrite
	again := export.SaveSamples(dir, m, []modtool.SampleNumber{1}, export.SaveOptions{Prefix: "demo"})
	if len(again) != 1 || !errors.Is(again[0].Err, os.ErrExist) {
		t.Fatalf("expected an already exists error, got: %+v", again)
	}
}

func TestSaveSamplesOutOfRange(t *testing.T) {
	results := export.SaveSamples(t.TempDir(), testModule(), []modtool.SampleNumber{5}, export.SaveOptions{Prefix: "demo"})
	if len(results) != 1 || !errors.Is(results[0].Err, export.ErrNoSuchSample) {
		t.Fatalf("expected ErrNoSuchSample, got: %+v", results)
	}
}

type noteEvent struct {
	Tick     uint32
	On       bool
	Key      uint8
	Velocity uint8
}

func notes(track smf.Track) []noteEvent {
	var ret []noteEvent
	var tick uint32
	for _, ev := range track {
		tick += ev.Delta
		var ch, key, vel uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			ret = append(ret, noteEvent{Tick: tick, On: true, Key: key, Velocity: vel})
		case msg.GetNoteOff(&ch, &key, &vel):
			ret = append(ret, noteEvent{Tick: tick, Key: key})
		}
	}
	return ret
}

func TestWriteMIDI(t *testing.T) {
	var buf bytes.Buffer
	opts := export.MIDIOptions{BPM: 120, TicksPerRow: 10, Velocity: 100}
	if err := export.WriteMIDI(&buf, testModule(), opts); err != nil {
		t.Fatalf("WriteMIDI failed: %v", err)
	}
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("could not read back the midi file: %v", err)
	}
	if len(s.Tracks) != 3 {
		t.Fatalf("expected a tempo track and 2 channel tracks, got %v tracks", len(s.Tracks))
	}
	var bpm float64
	for _, ev := range s.Tracks[0] {
		if ev.Message.GetMetaTempo(&bpm) {
			break
		}
	}
	if bpm != 120 {
		t.Errorf("wrong tempo. got: %v expected: %v", bpm, 120)
	}
	// pattern 1 breaks after its second row, so the song is 6 rows long
	expected := []noteEvent{
		{Tick: 0, On: true, Key: 60, Velocity: 100},
		{Tick: 20, Key: 60},
		{Tick: 20, On: true, Key: 72, Velocity: 50},
		{Tick: 60, Key: 72},
	}
	if got := notes(s.Tracks[1]); !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong notes. got: %+v expected: %+v", got, expected)
	}
	if got := notes(s.Tracks[2]); len(got) != 0 {
		t.Fatalf("channel 2 should have no notes, got: %+v", got)
	}
}

func TestWriteMIDIRejectsInvalidModule(t *testing.T) {
	m := testModule()
	m.Positions.Data[1] = 9
	if err := export.WriteMIDI(&bytes.Buffer{}, m, export.DefaultMIDIOptions); !errors.Is(err, modtool.ErrInvalidModule) {
		t.Fatalf("expected ErrInvalidModule, got: %v", err)
	}
}

func TestWav(t *testing.T) {
	si := &modtool.SampleInfo{Length: 2, RepeatStart: 1, RepeatLength: 1, Data: modtool.SampleData{0, 0x7F, 0x80, 0xFF}}
	data := export.Wav(si, 8287)
	if !bytes.HasPrefix(data, []byte("RIFF")) || string(data[8:12]) != "WAVE" {
		t.Fatalf("not a wave file: %q", data[:12])
	}
	if len(data) != 44+4 {
		t.Fatalf("a sample without a loop should have no smpl chunk, got %v bytes", len(data))
	}
	if got, expected := data[44:], []byte{0x80, 0xFF, 0x00, 0x7F}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong wave data. got: %v expected: %v", got, expected)
	}
	si.RepeatLength = 2
	looped := export.Wav(si, 8287)
	if len(looped) != 44+4+8+60 || string(looped[48:52]) != "smpl" {
		t.Fatalf("looped sample should carry a smpl chunk, got %v bytes", len(looped))
	}
}

func TestSaveSamplesAsWav(t *testing.T) {
	dir := t.TempDir()
	results := export.SaveSamples(dir, testModule(), []modtool.SampleNumber{1}, export.SaveOptions{UseSampleName: true, Format: export.WAV})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("save failed: %+v", results)
	}
	if want := filepath.Join(dir, "Basso_01.wav"); results[0].Path != want {
		t.Fatalf("wrong path. got: %v expected: %v", results[0].Path, want)
	}
	if _, err := os.Stat(results[0].Path); err != nil {
		t.Fatalf("wave file missing: %v", err)
	}
}
