package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	infoName  string
	infoClean bool
)

var infoCmd = &cobra.Command{
	Use:   "info <files...>",
	Short: "Profile one or more files: duplicates, empty rows, head, structure, statistics, missing values",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if infoName != "" && len(files) > 1 {
			return fmt.Errorf("--name applies to a single file, got %d", len(files))
		}
		return emit(cmd, func(w io.Writer) error {
			rep := newReporter(w)
			failed := 0
			for _, path := range files {
				f, err := loadTable(cmd, w, path)
				if err != nil {
					if len(files) == 1 {
						return err
					}
					warnf("%v", err)
					failed++
					continue
				}
				name := frameName(infoName, path)
				if infoClean {
					rep.Clean(f, name)
				}
				rep.Info(f, name)
			}
			if failed == len(files) {
				return fmt.Errorf("no table loaded from %d files", failed)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVarP(&infoName, "name", "n", "", "name shown in the report banner (default: file name)")
	infoCmd.Flags().BoolVar(&infoClean, "clean", false, "clean the table before profiling")
}
