// Package report renders the human readable views of a module from text
// templates.
package report

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/modtool"
	"github.com/vsariola/modtool/analysis"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

//go:embed templates/*.tmpl
var templateFS embed.FS

// Report renders the sections of the show command. Width is the terminal
// width used for wrapping long lists; with ScientificPitch set the note
// octaves are given in scientific pitch notation.
type Report struct {
	Template        *template.Template
	Width           int
	ScientificPitch bool
}

type (
	sampleRow struct {
		Number       int
		Name         string
		Used         bool
		Length       int
		Finetune     int8
		Volume       uint8
		RepeatStart  int
		RepeatLength int
		Levels       analysis.Levels
	}

	patternInfoData struct {
		analysis.PatternInfo
		WrapWidth int
		spn       bool
	}
)

// New returns a Report using the built in templates.
func New(width int, scientificPitch bool) (*Report, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Report{Template: tmpl, Width: width, ScientificPitch: scientificPitch}, nil
}

// NewFromTemplates returns a Report using the *.tmpl templates of a
// directory, which must define the same sections as the built in ones.
func NewFromTemplates(width int, scientificPitch bool, templateDirectory string) (*Report, error) {
	globPtrn := filepath.Join(templateDirectory, "*.tmpl")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Report{Template: tmpl, Width: width, ScientificPitch: scientificPitch}, nil
}

func (r *Report) Summary(w io.Writer, m *modtool.Module) error {
	return r.execute(w, "summary", analysis.Summarize(m))
}

// SampleInfo lists the details of every sample slot, used or not.
func (r *Report) SampleInfo(w io.Writer, m *modtool.Module) error {
	rows := make([]sampleRow, len(m.SampleInfo))
	for i, si := range m.SampleInfo {
		rows[i] = sampleRow{
			Number:       i + 1,
			Name:         si.Name,
			Used:         si.Used(),
			Length:       si.ByteLength(),
			Finetune:     si.Finetune,
			Volume:       si.Volume,
			RepeatStart:  int(si.RepeatStart) * 2,
			RepeatLength: int(si.RepeatLength) * 2,
			Levels:       analysis.SampleLevels(si.Data),
		}
	}
	return r.execute(w, "sampleinfo", rows)
}

func (r *Report) SampleStats(w io.Writer, m *modtool.Module) error {
	return r.execute(w, "samplestats", analysis.SampleStats(m))
}

func (r *Report) PatternInfo(w io.Writer, m *modtool.Module) error {
	return r.execute(w, "patterninfo", patternInfoData{
		PatternInfo: analysis.Patterns(m),
		WrapWidth:   r.wrapWidth(),
		spn:         r.ScientificPitch,
	})
}

func (r *Report) execute(w io.Writer, name string, data interface{}) error {
	if err := r.Template.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf(`could not execute template "%v": %v`, name, err)
	}
	return nil
}

// wrapWidth is the room left for a list after its label.
func (r *Report) wrapWidth() int {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	const label = 28
	if width-label < 16 {
		return 16
	}
	return width - label
}

// Note gives the note name of a period, or "?" if it has none.
func (d patternInfoData) Note(period uint16) string {
	n, err := analysis.ResolveNote(period, d.spn)
	if err != nil {
		return "?"
	}
	return n.String()
}

// PeakDB formats the peak level of a sample.
func (s sampleRow) PeakDB() string {
	if s.Levels.Peak == 0 {
		return "silent"
	}
	return fmt.Sprintf("%.1f dBFS", s.Levels.PeakDB())
}
