package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/datakit-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/datakit-cli/internal/config"
	"github.com/KaramelBytes/datakit-cli/internal/frame"
	"github.com/KaramelBytes/datakit-cli/internal/loader"
	"github.com/KaramelBytes/datakit-cli/internal/utils"
	"github.com/spf13/cobra"
)

func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = defaultConfig()
	}
	return cfg
}

// expandInputs resolves globs and de-duplicates the result in sorted order.
// An argument matching nothing is kept as a literal path.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// loadTable runs the extraction step, writing its status line to w.
func loadTable(cmd *cobra.Command, w io.Writer, path string) (*frame.Frame, error) {
	opt, err := effectiveConfig().LoaderOptions()
	if err != nil {
		return nil, err
	}
	f := loader.Extract(cmd.Context(), w, path, opt)
	if f == nil {
		return nil, fmt.Errorf("no table loaded from %s", path)
	}
	return f, nil
}

func newReporter(w io.Writer) *analysis.Reporter {
	return analysis.New(w, effectiveConfig().ReportOptions())
}

// emit runs a report against stdout, or against a buffer that is written to
// --output once the report completes.
func emit(cmd *cobra.Command, run func(w io.Writer) error) error {
	if outputPath == "" {
		return run(cmd.OutOrStdout())
	}
	var buf bytes.Buffer
	err := run(&buf)
	if buf.Len() > 0 {
		if werr := utils.SafeWriteFile(outputPath, buf.Bytes()); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", outputPath)
	}
	return err
}

// frameName picks the banner name: the --name flag, else the file name.
func frameName(flagName, path string) string {
	if flagName != "" {
		return flagName
	}
	return filepath.Base(path)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}
