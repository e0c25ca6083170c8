package main

import (
	"fmt"
	"os"
	"strings"

	billy "github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"

	mee "github.com/amonsch/mee-cli"
	"github.com/amonsch/mee-cli/engine"
	"github.com/amonsch/mee-cli/source"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
		os.Exit(1)
	}

	if cfg.NoColor {
		colorEnabled = false
	}

	eng := mee.Open(newStore(osfs.New(cfg.DataDir), cfg)).Engine()

	// One-shot execution, no shell
	if cfg.Execute != "" {
		result, err := eng.Execute(cfg.Execute)
		if err == nil {
			err = writeResult(os.Stdout, result, cfg.Format)
		}
		if err != nil {
			fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
			os.Exit(1)
		}
		return
	}

	// Batch execution from a statement file, no shell
	if cfg.File != "" {
		if err := runFile(eng, cfg.File, cfg.Format); err != nil {
			fmt.Println(colorize(ErrorColor, fmt.Sprintf("✗ Error: %v", err)))
			os.Exit(1)
		}
		return
	}

	printBanner()
	fmt.Println(colorize(SuccessColor, "Data directory: "+cfg.DataDir))
	fmt.Println()

	newShell(eng, cfg.Format).run()
}

func newStore(fs billy.Filesystem, cfg Config) *source.Store {
	var s3cfg *source.S3Config
	if cfg.S3AccessKey != "" || cfg.S3Region != "" || cfg.S3Endpoint != "" {
		s3cfg = &source.S3Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
		}
	}
	return source.NewStoreWithS3(fs, s3cfg)
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("mee v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for the side margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Println(colorize(BoldColor+PromptColor, "╔═══════════════════════════════════════╗"))
	fmt.Println(colorize(BoldColor+PromptColor, fmt.Sprintf("║ %*s%s%*s ║", leftPad, "", versionLine, rightPad, "")))
	fmt.Println(colorize(BoldColor+PromptColor, "║   A query shell for flat JSON files   ║"))
	fmt.Println(colorize(BoldColor+PromptColor, "╚═══════════════════════════════════════╝"))
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
}

// runFile executes every statement in a file, reporting per-statement status
// and a final summary. Statement errors are reported but do not stop the run.
func runFile(eng *engine.Engine, filename, format string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	statements := splitStatements(string(data))

	successCount := 0
	errorCount := 0

	for i, statement := range statements {
		result, err := eng.Execute(statement)
		if err != nil {
			fmt.Println(colorize(ErrorColor, fmt.Sprintf("[%d] ✗ %s", i+1, truncate(statement, 50))))
			fmt.Printf("      Error: %v\n", err)
			errorCount++
			continue
		}

		rows := 0
		if result != nil {
			rows = result.RecordsRead
		}
		fmt.Println(colorize(SuccessColor, fmt.Sprintf("[%d] ✓ %s (%d rows)", i+1, truncate(statement, 50), rows)))
		if err := writeResult(os.Stdout, result, format); err != nil {
			return err
		}
		successCount++
	}

	fmt.Println()
	fmt.Println(colorize(SuccessColor, fmt.Sprintf("✓ Run complete: %d succeeded, %d failed", successCount, errorCount)))
	return nil
}

// splitStatements splits file content on semicolons, respecting quoted
// strings and skipping lines that start with -- comments.
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	var stringChar byte

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Skip comment lines outside of statements
		if !inString && strings.HasPrefix(trimmed, "--") {
			continue
		}

		for i := 0; i < len(line); i++ {
			ch := line[i]

			if inString {
				current.WriteByte(ch)
				if ch == stringChar && (i == 0 || line[i-1] != '\\') {
					inString = false
				}
				continue
			}

			switch ch {
			case '\'', '"':
				inString = true
				stringChar = ch
				current.WriteByte(ch)
			case ';':
				statement := strings.TrimSpace(current.String())
				if statement != "" {
					statements = append(statements, statement+";")
				}
				current.Reset()
			default:
				current.WriteByte(ch)
			}
		}

		if current.Len() > 0 {
			current.WriteByte(' ')
		}
	}

	// Keep a trailing statement without a semicolon
	if statement := strings.TrimSpace(current.String()); statement != "" {
		statements = append(statements, statement)
	}

	return statements
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
