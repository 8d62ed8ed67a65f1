package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/questioncategorizer/categorizer"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize questions and print the category breakdown",
	Long: `Imports a questions spreadsheet and a categories spreadsheet, sends both to the
categorization endpoint, prints the per-category breakdown and writes the results to CSV.`,
	RunE: runCategorize,
}

var (
	questionsPath  string
	categoriesPath string
	selectCategory string
	outputPath     string
	outputDir      string
	noOutput       bool
	printResults   bool
)

func init() {
	categorizeCmd.Flags().StringVarP(&questionsPath, "questions", "q", "", "Spreadsheet (.xlsx/.csv/.tsv) with a Question column")
	categorizeCmd.Flags().StringVarP(&categoriesPath, "categories", "k", "", "Spreadsheet (.xlsx/.csv/.tsv) with a Category column")
	categorizeCmd.Flags().StringVarP(&selectCategory, "select", "s", "", "Print the questions assigned to this category")
	categorizeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "CSV file to write results (default uses --output-dir/result_*.csv)")
	categorizeCmd.Flags().StringVar(&outputDir, "output-dir", "csv", "Directory where result CSVs are written when --output is omitted")
	categorizeCmd.Flags().BoolVar(&noOutput, "no-output", false, "Do not write a result CSV")
	categorizeCmd.Flags().BoolVar(&printResults, "stdout", false, "Print every result to STDOUT")
	_ = categorizeCmd.MarkFlagRequired("questions")
	_ = categorizeCmd.MarkFlagRequired("categories")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	client := categorizer.NewClient(config, logger)
	svc, err := categorizer.NewService(client, config, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	if _, err := svc.ImportFile(strings.TrimSpace(questionsPath), categorizer.KindQuestions); err != nil {
		return fmt.Errorf("read questions: %w", err)
	}
	if _, err := svc.ImportFile(strings.TrimSpace(categoriesPath), categorizer.KindCategories); err != nil {
		return fmt.Errorf("read categories: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := svc.Categorize(ctx)
	if err != nil {
		if errors.Is(err, categorizer.ErrNoQuestions) || errors.Is(err, categorizer.ErrNoCategories) {
			return fmt.Errorf("nothing to categorize: %w", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	printChart(out, categorizer.Segments(categorizer.Aggregate(results)))
	if printResults {
		printResultList(out, results)
	}
	if name := strings.TrimSpace(selectCategory); name != "" {
		svc.Store().Select(name)
		printDetail(out, name, svc.Store().Snapshot().Detail())
	}

	if noOutput {
		return nil
	}
	path, err := resolveOutputPath(strings.TrimSpace(outputPath), strings.TrimSpace(outputDir))
	if err != nil {
		return err
	}
	if err := writeResultFile(path, results); err != nil {
		return err
	}
	fmt.Fprintf(out, "Results written to %s\n", path)
	return nil
}
