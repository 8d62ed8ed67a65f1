package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/questioncategorizer/categorizer"
)

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show the raw rows and extracted entries of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var (
	previewKind  string
	previewLimit int
)

func init() {
	previewCmd.Flags().StringVar(&previewKind, "kind", string(categorizer.KindQuestions), "What the file holds: questions or categories")
	previewCmd.Flags().IntVarP(&previewLimit, "limit", "n", 10, "Maximum number of rows to print")
}

func runPreview(cmd *cobra.Command, args []string) error {
	kind := categorizer.Kind(strings.ToLower(strings.TrimSpace(previewKind)))
	res, err := categorizer.NewImporter(config.Columns).ImportFile(args[0], kind)
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("no file given")
	}
	printPreview(cmd.OutOrStdout(), res, previewLimit)
	return nil
}
