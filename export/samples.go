// Package export writes module content out in foreign formats: raw sample
// files and Standard MIDI Files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/vsariola/modtool"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type (
	// SaveOptions control the naming and format of saved sample files.
	// Files are named Prefix_N.raw, or after the sanitized sample name when
	// UseSampleName is set. A zero SampleRate means PALSampleRate.
	SaveOptions struct {
		Prefix        string
		UseSampleName bool
		Format        SampleFormat
		SampleRate    int
	}

	// SaveResult tells what happened to one requested sample.
	SaveResult struct {
		Number  int
		Path    string
		Skipped bool // the sample was empty
		Err     error
	}
)

var ErrNoSuchSample = errors.New("no such sample")

// unsafeRunes cannot appear in file names on at least one common platform.
const unsafeRunes = `/\:*?"<>|`

var nameCleaner = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(unsafeRunes, r) {
			return '_'
		}
		return r
	}),
	norm.NFC,
)

// SanitizeName folds a sample name into something safe to use as a file
// name. Accents are dropped, unsafe characters become underscores and
// leading or trailing dots and spaces are trimmed.
func SanitizeName(name string) string {
	ret, _, err := transform.String(nameCleaner, name)
	if err != nil {
		ret = name
	}
	return strings.Trim(ret, ". ")
}

// SampleFileName gives the file name of sample number n. If the sanitized
// sample name is empty, the prefix is used even with useName set.
func SampleFileName(prefix string, number int, name string, useName bool, format SampleFormat) string {
	if useName {
		if s := SanitizeName(name); s != "" {
			return s + format.Ext()
		}
	}
	return fmt.Sprintf("%s_%d%s", prefix, number, format.Ext())
}

// SaveSamples writes the data of the given samples (all samples if numbers
// is empty) into dir, as raw signed 8-bit or as wave files. Existing files are never
// overwritten. Empty samples are skipped. A failure with one sample does not
// stop the others; inspect the Err of each result.
func SaveSamples(dir string, m *modtool.Module, numbers []modtool.SampleNumber, opts SaveOptions) []SaveResult {
	if len(numbers) == 0 {
		for i := range m.SampleInfo {
			if n, err := modtool.ParseSampleNumber(i + 1); err == nil {
				numbers = append(numbers, n)
			}
		}
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = PALSampleRate
	}
	results := make([]SaveResult, 0, len(numbers))
	for _, n := range numbers {
		res := SaveResult{Number: int(n)}
		if n.Index() >= len(m.SampleInfo) {
			res.Err = fmt.Errorf("%w: sample %d, only %d samples available", ErrNoSuchSample, n, len(m.SampleInfo))
			results = append(results, res)
			continue
		}
		si := &m.SampleInfo[n.Index()]
		res.Path = filepath.Join(dir, SampleFileName(opts.Prefix, int(n), si.Name, opts.UseSampleName, opts.Format))
		switch {
		case !si.Used() || len(si.Data) == 0:
			res.Skipped = true
		case opts.Format == WAV:
			res.Err = writeNew(res.Path, Wav(si, opts.SampleRate))
		default:
			res.Err = writeNew(res.Path, si.Data)
		}
		results = append(results, res)
	}
	return results
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("could not create file %v: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return f.Close()
}
