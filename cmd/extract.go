package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Load a file and print its shape and first rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, func(w io.Writer) error {
			f, err := loadTable(cmd, w, args[0])
			if err != nil {
				return err
			}
			newReporter(w).Preview(f)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
