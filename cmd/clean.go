package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var (
	cleanName string
	cleanInfo bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Drop duplicate and fully empty rows, reset the index and preview the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return emit(cmd, func(w io.Writer) error {
			f, err := loadTable(cmd, w, path)
			if err != nil {
				return err
			}
			rep := newReporter(w)
			name := frameName(cleanName, path)
			rep.Clean(f, name)
			if cleanInfo {
				rep.Info(f, name)
				return nil
			}
			io.WriteString(w, "\n")
			rep.Preview(f)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanName, "name", "n", "", "name shown in the report banner (default: file name)")
	cleanCmd.Flags().BoolVar(&cleanInfo, "info", false, "profile the cleaned table instead of previewing it")
}
