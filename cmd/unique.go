package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var uniqueCmd = &cobra.Command{
	Use:   "unique <file>",
	Short: "List the distinct values of every column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, func(w io.Writer) error {
			f, err := loadTable(cmd, w, args[0])
			if err != nil {
				return err
			}
			newReporter(w).ColumnUnique(f)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(uniqueCmd)
}
