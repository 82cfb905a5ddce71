package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/datakit-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set datakit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		fmt.Fprintf(out, "encoding: %s\n", c.Encoding)
		fmt.Fprintf(out, "decimal: %q\n", c.Decimal)
		fmt.Fprintf(out, "thousands: %q\n", c.Thousands)
		if len(c.MissingValues) > 0 {
			fmt.Fprintf(out, "missing_values: %s\n", strings.Join(c.MissingValues, ","))
		} else {
			fmt.Fprintln(out, "missing_values: (default)")
		}
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", c.SheetIndex)
		if c.SQLiteTable != "" {
			fmt.Fprintf(out, "sqlite_table: %s\n", c.SQLiteTable)
		}
		fmt.Fprintf(out, "preview_rows: %d\n", c.PreviewRows)
		fmt.Fprintf(out, "top_n: %d\n", c.TopN)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file and env values so flag overrides are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "delimiter", "decimal", "thousands":
			if _, err := cfgpkg.ParseRune(key, val); err != nil {
				return err
			}
			switch key {
			case "delimiter":
				c.Delimiter = val
			case "decimal":
				c.Decimal = val
			default:
				c.Thousands = val
			}
		case "encoding":
			c.Encoding = val
		case "missing_values":
			if val == "" {
				c.MissingValues = nil
			} else {
				c.MissingValues = strings.Split(val, ",")
			}
		case "sheet_name":
			c.SheetName = val
		case "sheet_index", "preview_rows", "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			switch key {
			case "sheet_index":
				c.SheetIndex = i
			case "preview_rows":
				c.PreviewRows = i
			default:
				c.TopN = i
			}
		case "sqlite_table":
			c.SQLiteTable = val
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				c.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
