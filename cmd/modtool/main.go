package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/vsariola/modtool/config"
	"github.com/vsariola/modtool/report"
	"golang.org/x/term"
)

type (
	app struct {
		cfg    config.Config
		logger *log.Logger
		stdout io.Writer
		width  int
		usage  string // of the running command
	}

	command struct {
		usage   string
		summary string
		run     func(a *app, args []string) int
	}
)

var commands = map[string]command{
	"show":    {"show [flags] <file>...", "Show various info and statistics.", runShow},
	"save":    {"save (--number=N | --all) [flags] <file>...", "Save samples, RAW 8-bit signed.", runSave},
	"convert": {"convert [flags] <file>...", "Remove unused samples and/or patterns, convert between json and yaml.", runConvert},
	"merge":   {"merge [--sync] <target> <file>...", "Append the patterns and play order of the files into target; the first file is the base.", runMerge},
	"insert":  {"insert <target> <file>", "Insert an E81 marker into every pattern without an E8x command.", runInsert},
	"usecode": {"usecode <file>...", "Print The Player usecode of the files.", runUsecode},
	"midi":    {"midi [flags] <file>...", "Export the play order as a Standard MIDI File.", runMIDI},
	"version": {"version", "Print version.", runVersion},
}

func main() {
	logger := log.New(os.Stderr, "", log.Ldate|log.Ltime)
	cfg := config.Load()
	if cfg.YmlError != nil {
		logger.Printf("ignoring user config: %v", cfg.YmlError)
	}
	a := &app{cfg: cfg, logger: logger, stdout: os.Stdout, width: terminalWidth()}
	os.Exit(a.run(os.Args[1:]))
}

func (a *app) run(args []string) int {
	if len(args) == 0 {
		printUsage(a.stdout)
		return 0
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(a.stdout)
		return 0
	case "-V", "--version":
		return runVersion(a, nil)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.logger.Printf("unknown command %q", args[0])
		printUsage(os.Stderr)
		return 2
	}
	a.usage = cmd.usage
	return cmd.run(a, args[1:])
}

// terminalWidth is the width of stdout, or report.DefaultWidth when stdout
// is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return report.DefaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return report.DefaultWidth
	}
	return width
}

// forEachFile processes every file, logging failures and carrying on with
// the next file. The return value is the exit code.
func (a *app) forEachFile(files []string, process func(string) error) int {
	retval := 0
	for _, file := range files {
		if err := process(file); err != nil {
			a.logger.Printf("could not process file %v: %v", file, err)
			retval = 1
		}
	}
	return retval
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "modtool. Inspect and edit tracker modules stored as .json or .yml files.\nUsage: %s <command> [flags] [file ...]\n\nCommands:\n", os.Args[0])
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-48s %s\n", commands[name].usage, commands[name].summary)
	}
	fmt.Fprintf(w, "\nRun %s <command> -h for the flags of a command.\n", os.Args[0])
}
