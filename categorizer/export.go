package categorizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ResultCSVHeader is the header row written by WriteResultsCSV.
var ResultCSVHeader = []string{"question", "category", "confidence"}

// WriteResultsCSV writes one row per result with its assigned category and the top-match
// confidence. The confidence column is blank for uncategorized results.
func WriteResultsCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultCSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		confidence := ""
		if top, ok := TopMatch(r); ok {
			confidence = strconv.FormatFloat(top.Confidence, 'f', -1, 64)
		}
		if err := cw.Write([]string{r.Question, AssignedCategory(r), confidence}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
