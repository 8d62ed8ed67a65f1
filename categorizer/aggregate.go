package categorizer

// Aggregation is the per-category count of a result set, in first-appearance order.
type Aggregation struct {
	Categories []AggregatedCategory
	Total      int
}

// AssignedCategory returns the name of the first match, or Uncategorized when there is none.
func AssignedCategory(r Result) string {
	if len(r.Categories) == 0 || r.Categories[0].Name == "" {
		return Uncategorized
	}
	return r.Categories[0].Name
}

// TopMatch returns the first match of r.
func TopMatch(r Result) (CategoryMatch, bool) {
	if len(r.Categories) == 0 {
		return CategoryMatch{}, false
	}
	return r.Categories[0], true
}

// Aggregate counts results by assigned category.
func Aggregate(results []Result) Aggregation {
	agg := Aggregation{Total: len(results)}
	index := make(map[string]int)
	for _, r := range results {
		name := AssignedCategory(r)
		if i, ok := index[name]; ok {
			agg.Categories[i].Count++
			continue
		}
		index[name] = len(agg.Categories)
		agg.Categories = append(agg.Categories, AggregatedCategory{Name: name, Count: 1})
	}
	return agg
}

// Counts returns the aggregation as a name to count mapping.
func (a Aggregation) Counts() map[string]int {
	out := make(map[string]int, len(a.Categories))
	for _, c := range a.Categories {
		out[c.Name] = c.Count
	}
	return out
}

// Empty reports whether there is nothing to chart.
func (a Aggregation) Empty() bool {
	return a.Total == 0
}

// QuestionsIn returns the results assigned to category, preserving their order.
func QuestionsIn(results []Result, category string) []Result {
	var out []Result
	for _, r := range results {
		if AssignedCategory(r) == category {
			out = append(out, r)
		}
	}
	return out
}

// Reconcile orders results to follow the question order, matching on normalized question text.
// Duplicate texts are matched first come, first served. Results that match no question are
// appended in their returned order, so nothing is dropped.
func Reconcile(questions []Question, results []Result) []Result {
	if len(results) == 0 {
		return results
	}
	pending := make(map[string][]int, len(results))
	for i, r := range results {
		key := NormalizeText(r.Question)
		pending[key] = append(pending[key], i)
	}
	used := make([]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, q := range questions {
		key := NormalizeText(q.Text)
		idx := pending[key]
		if len(idx) == 0 {
			continue
		}
		pending[key] = idx[1:]
		used[idx[0]] = true
		out = append(out, results[idx[0]])
	}
	for i, r := range results {
		if !used[i] {
			out = append(out, r)
		}
	}
	return out
}
