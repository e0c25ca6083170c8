package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/amonsch/mee-cli/engine"
)

// ANSI color codes
const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// colorEnabled is true when stdout is a terminal and NO_COLOR is unset.
// The --no-color flag clears it.
var colorEnabled = (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) &&
	os.Getenv("NO_COLOR") == ""

func colorize(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + ResetColor
}

var dotCommands = []string{
	".help", ".quit", ".exit", ".sources", ".format", ".run",
	".history", ".clear", ".version",
}

// Shell is the interactive statement loop.
type Shell struct {
	engine      *engine.Engine
	format      string
	historyFile string
	line        *liner.State
}

func newShell(eng *engine.Engine, format string) *Shell {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	sh := &Shell{
		engine:      eng,
		format:      format,
		historyFile: getHistoryPath(),
		line:        line,
	}
	line.SetCompleter(sh.complete)
	sh.loadHistory()
	return sh
}

func (sh *Shell) run() {
	defer sh.close()

	var multiLineBuffer strings.Builder

	for {
		input, err := sh.line.Prompt(sh.prompt(multiLineBuffer.Len() > 0))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl-C drops the statement in progress
				multiLineBuffer.Reset()
				continue
			}
			fmt.Println()
			fmt.Println(colorize(SuccessColor, "Goodbye!"))
			return
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		// Dot commands run immediately, but only outside a multi-line statement
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(input), ".") {
			sh.handleCommand(strings.TrimSpace(input))
			continue
		}

		multiLineBuffer.WriteString(input)

		statement := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(statement, ";") {
			// Statements end with a semicolon, keep reading
			multiLineBuffer.WriteString(" ")
			continue
		}
		multiLineBuffer.Reset()

		// A bare semicolon is no statement, keep it out of the history
		if strings.TrimSpace(strings.TrimSuffix(statement, ";")) == "" {
			continue
		}

		sh.line.AppendHistory(statement)
		sh.execute(statement)
	}
}

// prompt returns the primary or continuation prompt. liner does not account
// for ANSI escapes when it measures the prompt, so both stay uncolored.
func (sh *Shell) prompt(multiLine bool) string {
	if multiLine {
		return "   ...> "
	}
	return "mee> "
}

func (sh *Shell) execute(statement string) {
	result, err := sh.engine.Execute(statement)
	if err != nil {
		fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
		return
	}
	if err := writeResult(os.Stdout, result, sh.format); err != nil {
		fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
	}
}

// complete offers completions for the word under the cursor: keywords and
// source names normally, dot commands when the word starts with a dot.
func (sh *Shell) complete(input string) (completions []string) {
	cut := strings.LastIndexAny(input, " ,")
	prefix, word := "", input
	if cut >= 0 {
		prefix, word = input[:cut+1], input[cut+1:]
	}
	if word == "" {
		return nil
	}

	candidates := dotCommands
	if !strings.HasPrefix(word, ".") {
		candidates = []string{"SELECT", "FROM", "WHERE", "TRUE", "FALSE", "NULL"}
		if sources, err := sh.engine.Store().Sources(); err == nil {
			candidates = append(candidates, sources...)
		}
	}

	for _, candidate := range candidates {
		if strings.HasPrefix(strings.ToLower(candidate), strings.ToLower(word)) {
			completions = append(completions, prefix+candidate)
		}
	}
	return completions
}

func (sh *Shell) handleCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Println(colorize(SuccessColor, "Goodbye!"))
		sh.close()
		os.Exit(0)

	case ".help", ".h", ".?":
		sh.printHelp()

	case ".sources":
		sh.showSources()

	case ".format":
		if len(parts) > 1 && (parts[1] == "table" || parts[1] == "json") {
			sh.format = parts[1]
			fmt.Println(colorize(SuccessColor, "✓ Output format: "+sh.format))
		} else {
			fmt.Println(colorize(ErrorColor, "✗ Usage: .format table|json"))
		}

	case ".run":
		if len(parts) > 1 {
			if err := runFile(sh.engine, parts[1], sh.format); err != nil {
				fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
			}
		} else {
			fmt.Println(colorize(ErrorColor, "✗ Usage: .run <file>"))
		}

	case ".history":
		sh.printHistory()

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".version":
		fmt.Printf("mee version %s\n", Version)

	default:
		fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Unknown command: %s (type .help for commands)", parts[0])))
	}
}

func (sh *Shell) printHelp() {
	fmt.Println()
	fmt.Println(colorize(BoldColor+PromptColor, "Special Commands:"))
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the shell")
	fmt.Println("  .sources         List source files in the data directory")
	fmt.Println("  .format <fmt>    Set output format: table or json")
	fmt.Println("  .run <file>      Execute statements from a file")
	fmt.Println("  .history         Show recent statements")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Println(colorize(BoldColor+PromptColor, "Statements:"))
	fmt.Println("  SELECT <field>[, <field>...] FROM <source> [WHERE <field> = <literal>];")
	fmt.Println("  SELECT <field>[, <field>...] FROM <source> [WHERE <field> != <literal>];")
	fmt.Println()
	fmt.Println(colorize(BoldColor+PromptColor, "Sources:"))
	fmt.Println("  people.ndjson                            file in the data directory")
	fmt.Println("  'file:///var/data/people.ndjson'         absolute path")
	fmt.Println("  'https://example.com/people.ndjson'      HTTP(S) URL")
	fmt.Println("  's3://bucket/people.ndjson'              S3 object")
	fmt.Println("  'git+https://host/repo.git#main:p.ndjson'  file in a git revision")
	fmt.Println()
	fmt.Println(colorize(BoldColor+PromptColor, "Literals:") + " 'string', 42, 4.25, -7, TRUE, FALSE, NULL")
	fmt.Println()
}

func (sh *Shell) showSources() {
	sources, err := sh.engine.Store().Sources()
	if err != nil {
		fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
		return
	}
	if len(sources) == 0 {
		fmt.Println("No sources found")
		return
	}
	for _, name := range sources {
		fmt.Println("  " + name)
	}
}

func (sh *Shell) printHistory() {
	var buf bytes.Buffer
	if _, err := sh.line.WriteHistory(&buf); err != nil {
		fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
		return
	}

	entries := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(entries) == 1 && entries[0] == "" {
		fmt.Println("No history yet")
		return
	}

	// Show the last 20 entries
	start := 0
	if len(entries) > 20 {
		start = len(entries) - 20
	}
	for i := start; i < len(entries); i++ {
		fmt.Printf("%3d  %s\n", i+1, entries[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mee_history")
}

func (sh *Shell) loadHistory() {
	if sh.historyFile == "" {
		return
	}
	file, err := os.Open(sh.historyFile)
	if err != nil {
		return
	}
	defer file.Close()
	sh.line.ReadHistory(file)
}

func (sh *Shell) saveHistory() {
	if sh.historyFile == "" {
		return
	}
	file, err := os.Create(sh.historyFile)
	if err != nil {
		return
	}
	defer file.Close()
	sh.line.WriteHistory(file)
}

func (sh *Shell) close() {
	sh.saveHistory()
	sh.line.Close()
}

// writeResult renders a query result in the requested output format.
func writeResult(w io.Writer, result *engine.QueryResult, format string) error {
	if result == nil {
		return nil
	}
	if format == "json" {
		return result.WriteJSON(w)
	}
	result.Display(w)
	return nil
}
