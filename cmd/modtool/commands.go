package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vsariola/modtool"
	"github.com/vsariola/modtool/analysis"
	"github.com/vsariola/modtool/edit"
	"github.com/vsariola/modtool/export"
	"github.com/vsariola/modtool/interchange"
	"github.com/vsariola/modtool/report"
	"github.com/vsariola/modtool/version"
)

func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s\n", filepath.Base(os.Args[0]), a.usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse returns the exit code to use when the command should not go on.
func parse(fs *pflag.FlagSet, args []string) (bool, int) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, 0
		}
		return false, 2
	}
	return true, 0
}

func (a *app) logWarnings(file string, warnings []edit.IntegrityWarning) {
	for _, w := range warnings {
		a.logger.Printf("warning: %v: %v", file, w)
	}
}

func (a *app) encoder(format interchange.Format) interchange.Encoder {
	return interchange.Encoder{Format: format, Indent: a.cfg.Indent}
}

// outputFormat is the format of an output path, falling back to the
// configured format for unknown extensions.
func (a *app) outputFormat(path string) (interchange.Format, error) {
	if f, err := interchange.FormatFromPath(path); err == nil {
		return f, nil
	}
	return interchange.ParseFormat(a.cfg.OutputFormat)
}

func runShow(a *app, args []string) int {
	fs := a.flagSet("show")
	summary := fs.Bool("summary", false, "Show summary info.")
	sampleInfo := fs.Bool("sample-info", false, "Show info about samples.")
	sampleStats := fs.Bool("sample-stats", false, "Show sample statistics.")
	patternInfo := fs.Bool("pattern-info", false, "Show info about patterns.")
	spn := fs.Bool("use-spn", a.cfg.ScientificPitch, "Use scientific pitch notation where middle C is C4.")
	tmplDir := fs.StringP("templates", "t", "", "Use the *.tmpl templates in this directory instead of the standard ones.")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	if !*summary && !*sampleInfo && !*sampleStats && !*patternInfo {
		*summary = true
	}
	var rep *report.Report
	var err error
	if *tmplDir != "" {
		rep, err = report.NewFromTemplates(a.width, *spn, *tmplDir)
	} else {
		rep, err = report.New(a.width, *spn)
	}
	if err != nil {
		a.logger.Printf("error creating report: %v", err)
		return 1
	}
	return a.forEachFile(fs.Args(), func(file string) error {
		m, err := interchange.ReadFile(file)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Processing: %v\n", file)
		sections := []struct {
			enabled bool
			render  func() error
		}{
			{*summary, func() error { return rep.Summary(a.stdout, m) }},
			{*sampleInfo, func() error { return rep.SampleInfo(a.stdout, m) }},
			{*sampleStats, func() error { return rep.SampleStats(a.stdout, m) }},
			{*patternInfo, func() error { return rep.PatternInfo(a.stdout, m) }},
		}
		for _, s := range sections {
			if !s.enabled {
				continue
			}
			if err := s.render(); err != nil {
				return err
			}
		}
		return nil
	})
}

func runSave(a *app, args []string) int {
	fs := a.flagSet("save")
	number := fs.IntP("number", "n", 0, "Save only sample number N (1-31).")
	all := fs.BoolP("all", "a", false, "Save all samples.")
	useName := fs.Bool("use-sample-name", a.cfg.Save.UseSampleName, "Use the sample name as the file name, if valid.")
	prefix := fs.StringP("prefix", "p", a.cfg.Save.Prefix, "Prefix of the file names, which are <prefix>_<number>.raw.")
	dir := fs.StringP("output", "o", ".", "Directory where the samples are written.")
	wav := fs.Bool("wav", a.cfg.Save.WAV, "Write 8-bit .wav files instead of headerless .raw files.")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	var numbers []modtool.SampleNumber
	switch {
	case *all && fs.Changed("number"):
		a.logger.Printf("give either --number or --all, not both")
		return 2
	case !*all:
		if !fs.Changed("number") {
			a.logger.Printf("give either --number or --all")
			return 2
		}
		n, err := modtool.ParseSampleNumber(*number)
		if err != nil {
			a.logger.Print(err)
			return 2
		}
		numbers = []modtool.SampleNumber{n}
	}
	return a.forEachFile(fs.Args(), func(file string) error {
		m, err := interchange.ReadFile(file)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Processing: %v\n", file)
		failed := 0
		opts := export.SaveOptions{Prefix: *prefix, UseSampleName: *useName}
		if *wav {
			opts.Format = export.WAV
		}
		for _, res := range export.SaveSamples(*dir, m, numbers, opts) {
			switch {
			case res.Err != nil:
				a.logger.Printf("could not save sample %d: %v", res.Number, res.Err)
				failed++
			case res.Skipped:
				fmt.Fprintf(a.stdout, "Skipping empty sample %d\n", res.Number)
			default:
				fmt.Fprintf(a.stdout, "Writing sample: '%v'\n", res.Path)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d samples could not be saved", failed)
		}
		return nil
	})
}

// convertedPath is where convert writes the result of file.
func convertedPath(file, prefix string, format interchange.Format) string {
	dir, name := filepath.Split(file)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if prefix != "" {
		name = prefix + "_" + name
	}
	return filepath.Join(dir, name+format.Ext())
}

func runConvert(a *app, args []string) int {
	fs := a.flagSet("convert")
	unusedPatterns := fs.Bool("unused-patterns", false, "Remove unused patterns.")
	unusedSamples := fs.Bool("unused-samples", false, "Remove unused samples.")
	to := fs.String("to", a.cfg.OutputFormat, "Output format: json or yaml.")
	prefix := fs.StringP("prefix", "p", "converted", "Prefix of the output file names.")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	format, err := interchange.ParseFormat(*to)
	if err != nil {
		a.logger.Print(err)
		return 2
	}
	return a.forEachFile(fs.Args(), func(file string) error {
		m, err := interchange.ReadFile(file)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Processing: %v\n", file)
		if *unusedPatterns {
			if removed := edit.RemoveUnusedPatterns(m); len(removed) > 0 {
				fmt.Fprintf(a.stdout, "Removed patterns: %v\n", removed)
			}
		}
		if *unusedSamples {
			removed, warnings := edit.RemoveUnusedSamples(m)
			a.logWarnings(file, warnings)
			if len(removed) > 0 {
				fmt.Fprintf(a.stdout, "Removed samples: %v\n", removed)
			}
		}
		out := convertedPath(file, *prefix, format)
		if out == file {
			return fmt.Errorf("output %v would overwrite the input, use a prefix", out)
		}
		return interchange.WriteFile(out, m, a.encoder(format))
	})
}

func runMerge(a *app, args []string) int {
	fs := a.flagSet("merge")
	sync := fs.Bool("sync", false, "Keep only the E8x, Fxx, Dxx and Bxx commands of the merged files.")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return 2
	}
	target, files := fs.Arg(0), fs.Args()[1:]
	modules := make([]*modtool.Module, len(files))
	for i, file := range files {
		m, err := interchange.ReadFile(file)
		if err != nil {
			a.logger.Printf("could not read file %v: %v", file, err)
			return 1
		}
		fmt.Fprintf(a.stdout, "Processing: %v\n", file)
		modules[i] = m
	}
	base := modules[0]
	if err := edit.Merge(base, modules[1:], *sync); err != nil {
		var capErr *edit.CapacityError
		if errors.As(err, &capErr) {
			a.logger.Printf("could not merge %v: %v", files[capErr.Source+1], err)
		} else {
			a.logger.Printf("could not merge: %v", err)
		}
		return 1
	}
	return a.write(target, base)
}

func (a *app) write(path string, m *modtool.Module) int {
	format, err := a.outputFormat(path)
	if err != nil {
		a.logger.Print(err)
		return 1
	}
	if err := interchange.WriteFile(path, m, a.encoder(format)); err != nil {
		a.logger.Print(err)
		return 1
	}
	return 0
}

func runInsert(a *app, args []string) int {
	fs := a.flagSet("insert")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	target, file := fs.Arg(0), fs.Arg(1)
	m, err := interchange.ReadFile(file)
	if err != nil {
		a.logger.Printf("could not read file %v: %v", file, err)
		return 1
	}
	results, errs := edit.InsertMarkers(m)
	for i, res := range results {
		if res == edit.MarkerPresent {
			fmt.Fprintf(a.stdout, "Pattern %d has an E8x command\n", i)
		}
	}
	for _, err := range errs {
		a.logger.Printf("warning: could not add E81: %v", err)
	}
	return a.write(target, m)
}

func runUsecode(a *app, args []string) int {
	fs := a.flagSet("usecode")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	return a.forEachFile(fs.Args(), func(file string) error {
		m, err := interchange.ReadFile(file)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%v: $%08x\n", file, analysis.Usecode(m))
		return nil
	})
}

func runMIDI(a *app, args []string) int {
	fs := a.flagSet("midi")
	bpm := fs.Float64("bpm", a.cfg.MIDI.BPM, "Tempo in beats per minute; a beat is 4 rows.")
	ticks := fs.Uint16("ticks-per-row", a.cfg.MIDI.TicksPerRow, "MIDI ticks per pattern row.")
	velocity := fs.Uint8("velocity", a.cfg.MIDI.Velocity, "Velocity of a note at full volume (1-127).")
	if ok, code := parse(fs, args); !ok {
		return code
	}
	opts := export.MIDIOptions{BPM: *bpm, TicksPerRow: *ticks, Velocity: *velocity}
	return a.forEachFile(fs.Args(), func(file string) error {
		m, err := interchange.ReadFile(file)
		if err != nil {
			return err
		}
		out := strings.TrimSuffix(file, filepath.Ext(file)) + ".mid"
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("could not create file %v: %w", out, err)
		}
		if err := export.WriteMIDI(f, m, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote %v\n", out)
		return nil
	})
}

func runVersion(a *app, args []string) int {
	fmt.Fprintln(a.stdout, version.String())
	return 0
}
