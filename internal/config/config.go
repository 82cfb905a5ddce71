package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/datakit-cli/internal/analysis"
	"github.com/KaramelBytes/datakit-cli/internal/loader"
	"github.com/KaramelBytes/datakit-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Reading
	Delimiter     string   `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding      string   `mapstructure:"encoding" yaml:"encoding"`
	Decimal       string   `mapstructure:"decimal" yaml:"decimal"`
	Thousands     string   `mapstructure:"thousands" yaml:"thousands"`
	MissingValues []string `mapstructure:"missing_values" yaml:"missing_values,omitempty"`
	SheetName     string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex    int      `mapstructure:"sheet_index" yaml:"sheet_index"`
	SQLiteTable   string   `mapstructure:"sqlite_table" yaml:"sqlite_table"`

	// Reports
	PreviewRows int `mapstructure:"preview_rows" yaml:"preview_rows"`
	TopN        int `mapstructure:"top_n" yaml:"top_n"`

	// Diagnostics
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Dir returns ~/.datakit.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datakit"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datakit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAKIT")
	v.AutomaticEnv()

	v.SetDefault("delimiter", "")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("decimal", "")
	v.SetDefault("thousands", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("sqlite_table", "")
	v.SetDefault("preview_rows", 3)
	v.SetDefault("top_n", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	// no default for missing_values: unset means the loader's token list
	_ = v.BindEnv("missing_values")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// LoaderOptions converts the reading keys.
func (c *Global) LoaderOptions() (loader.Options, error) {
	opt := loader.DefaultOptions()
	var err error
	if opt.Delimiter, err = ParseRune("delimiter", c.Delimiter); err != nil {
		return opt, err
	}
	if opt.DecimalSeparator, err = ParseRune("decimal", c.Decimal); err != nil {
		return opt, err
	}
	if opt.ThousandsSeparator, err = ParseRune("thousands", c.Thousands); err != nil {
		return opt, err
	}
	opt.Encoding = c.Encoding
	opt.MissingValues = c.MissingValues
	opt.SheetName = c.SheetName
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	opt.SQLiteTable = c.SQLiteTable
	return opt, nil
}

// ReportOptions converts the report keys.
func (c *Global) ReportOptions() analysis.Options {
	return analysis.Options{PreviewRows: c.PreviewRows, TopN: c.TopN}
}

// ParseRune reads a single-character setting. Empty means unset; "tab",
// `\t` and "space" name the whitespace separators.
func ParseRune(key, s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid %s %q: want a single character", key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
