package categorizer

import "strings"

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Question: []string{"Question"},
		Category: []string{"Category"},
	}
}

// forKind returns the candidate header names for an import kind.
func (c ColumnCandidates) forKind(kind Kind) []string {
	if kind == KindCategories {
		return c.Category
	}
	return c.Question
}

// withDefaults fills empty lists with the built-in names, allowing callers to override only
// the parts they need.
func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		Question: pickStrings(c.Question, defaults.Question),
		Category: pickStrings(c.Category, defaults.Category),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		Question: cloneStrings(c.Question),
		Category: cloneStrings(c.Category),
	}
}

func pickStrings(custom, fallback []string) []string {
	if len(custom) == 0 {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// findColumn returns the header key matching one of the candidates. An exact match wins over a
// case-insensitive NFKC match.
func findColumn(header []string, candidates []string) (string, bool) {
	for _, cand := range candidates {
		for _, col := range header {
			if col == cand {
				return col, true
			}
		}
	}
	for _, cand := range candidates {
		want := NormalizeText(cand)
		for _, col := range header {
			if strings.EqualFold(NormalizeText(col), want) {
				return col, true
			}
		}
	}
	return "", false
}
