package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"yashubustudio/questioncategorizer/categorizer"
)

const (
	barWidth      = 30
	maxCellLength = 60
)

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func writeResultFile(path string, results []categorizer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := categorizer.WriteResultsCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("write result file: %w", err)
	}
	return f.Close()
}

// printChart renders segments as horizontal bars, one per category.
func printChart(w io.Writer, segs []categorizer.Segment) {
	if len(segs) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	width := 0
	for _, seg := range segs {
		if n := len([]rune(seg.Label())); n > width {
			width = n
		}
	}
	fmt.Fprintln(w, "==== Categories ====")
	for _, seg := range segs {
		label := seg.Label()
		pad := strings.Repeat(" ", width-len([]rune(label)))
		bar := strings.Repeat("#", int(seg.Share*barWidth+0.5))
		fmt.Fprintf(w, "%s%s  %-*s %d\n", label, pad, barWidth, bar, seg.Count)
	}
}

func printDetail(w io.Writer, category string, rows []categorizer.DetailRow) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "==== %s ====\n", categorizer.DetailTitle(category))
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no questions)")
		return
	}
	for i, row := range rows {
		confidence := row.ConfidenceLabel()
		if confidence == "" {
			confidence = "-"
		}
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, truncateText(row.Question, maxCellLength), confidence)
	}
}

func printResultList(w io.Writer, results []categorizer.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "==== Results ====")
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, truncateText(r.Question, maxCellLength))
		if len(r.Categories) == 0 {
			fmt.Fprintf(w, "    - %s\n", categorizer.Uncategorized)
			continue
		}
		for _, m := range r.Categories {
			fmt.Fprintf(w, "    - %s (%s)\n", m.Name, categorizer.DetailRow{Confidence: m.Confidence, HasConfidence: true}.ConfidenceLabel())
		}
	}
}

func printPreview(w io.Writer, res *categorizer.ImportResult, limit int) {
	fmt.Fprintf(w, "Source:  %s\n", res.Source)
	if res.Sheet != "" {
		fmt.Fprintf(w, "Sheet:   %s\n", res.Sheet)
	}
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(res.Columns, ", "))
	fmt.Fprintf(w, "Rows:    %d\n", len(res.Preview))
	if limit <= 0 || limit > len(res.Preview) {
		limit = len(res.Preview)
	}
	for i := 0; i < limit; i++ {
		row := res.Preview[i]
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, truncateText(row[k], 20)))
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, strings.Join(parts, " | "))
	}

	fmt.Fprintln(w)
	switch res.Kind {
	case categorizer.KindCategories:
		fmt.Fprintf(w, "Categories: %d\n", len(res.Categories))
		for i, c := range res.Categories[:min(limit, len(res.Categories))] {
			fmt.Fprintf(w, "%d. %s\n", i+1, c.Name)
		}
	default:
		fmt.Fprintf(w, "Questions: %d\n", len(res.Questions))
		for i, q := range res.Questions[:min(limit, len(res.Questions))] {
			fmt.Fprintf(w, "%d. %s\n", i+1, truncateText(q.Text, maxCellLength))
		}
	}
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
