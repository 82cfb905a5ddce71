package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/datakit-cli/internal/config"
	"github.com/KaramelBytes/datakit-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	outputPath string
	// Reading flags (override config if set)
	flagDelimiter  string
	flagEncoding   string
	flagDecimal    string
	flagThousands  string
	flagSheetName  string
	flagSheetIndex int
	flagTable      string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "datakit",
	Short: "datakit: load, profile and clean tabular files",
	Long: `datakit loads CSV, TSV, JSON lines, gzip JSON lines, literal dumps (.ast.gz),
Parquet, XLSX and SQLite files into memory and prints profiles, cleaning
summaries and unique-value reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.datakit/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	pf.StringVarP(&outputPath, "output", "o", "", "write the report to this file instead of stdout")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV/TSV field separator: ',' | ';' | 'tab' (overrides config)")
	pf.StringVar(&flagEncoding, "encoding", "", "text encoding, e.g. utf-8, utf-8-sig, latin1 (overrides config)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.' | ',' (overrides config)")
	pf.StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ',' | '.' | 'space' (overrides config)")
	pf.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to read")
	pf.IntVar(&flagSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	pf.StringVar(&flagTable, "table", "", "SQLite: table to read (default: first table by name)")
}

func defaultConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		Encoding:    "utf-8",
		SheetIndex:  1,
		PreviewRows: 3,
		TopN:        10,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = defaultConfig()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("encoding") {
		cfg.Encoding = flagEncoding
	}
	if f.Changed("decimal") {
		cfg.Decimal = flagDecimal
	}
	if f.Changed("thousands") {
		cfg.Thousands = flagThousands
	}
	if f.Changed("sheet-name") {
		cfg.SheetName = flagSheetName
	}
	if f.Changed("sheet-index") && flagSheetIndex > 0 {
		cfg.SheetIndex = flagSheetIndex
	}
	if f.Changed("table") {
		cfg.SQLiteTable = flagTable
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.Setup(os.Stderr, level, cfg.LogFormat)
}
