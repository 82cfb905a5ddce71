package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var countAll bool

var countCmd = &cobra.Command{
	Use:   "count <file> <column>",
	Short: "Count the values of a column, most frequent first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, func(w io.Writer) error {
			f, err := loadTable(cmd, w, args[0])
			if err != nil {
				return err
			}
			rep := newReporter(w)
			if countAll {
				rep.UniqueCountAll(f, args[1])
			} else {
				rep.UniqueCount(f, args[1])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().BoolVarP(&countAll, "all", "a", false, "list every distinct value instead of the top ones")
}
