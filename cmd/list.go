package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file> <column>",
	Short: "List the distinct values of a column in sorted order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, func(w io.Writer) error {
			f, err := loadTable(cmd, w, args[0])
			if err != nil {
				return err
			}
			newReporter(w).UniqueCountList(f, args[1])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
