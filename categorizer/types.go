package categorizer

// Kind selects which column an imported spreadsheet is read for.
type Kind string

const (
	// KindQuestions reads the Question column into Question values.
	KindQuestions Kind = "questions"
	// KindCategories reads the Category column into Category values.
	KindCategories Kind = "categories"
)

// Uncategorized is the synthetic category assigned to results without any match.
const Uncategorized = "Uncategorized"

// Question is a single question to be categorized.
type Question struct {
	Text string `json:"text,omitempty"`
}

// Category is a candidate category name.
type Category struct {
	Name string `json:"name,omitempty"`
}

// CategoryMatch is one ranked category assignment. Confidence is a percentage (0-100).
type CategoryMatch struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Result holds the ranked matches for a single question, best match first.
type Result struct {
	Question   string          `json:"question"`
	Categories []CategoryMatch `json:"categories"`
}

// AggregatedCategory is the number of results assigned to a category.
type AggregatedCategory struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RawRow is a spreadsheet row keyed by column header. Blank cells are omitted.
type RawRow map[string]string

// ImportResult is the output of a single spreadsheet import.
type ImportResult struct {
	Kind       Kind
	Source     string
	Sheet      string
	Columns    []string
	Questions  []Question
	Categories []Category
	Preview    []RawRow
}

// Len returns the number of structured entries extracted for the import kind.
func (r *ImportResult) Len() int {
	if r == nil {
		return 0
	}
	if r.Kind == KindCategories {
		return len(r.Categories)
	}
	return len(r.Questions)
}

// ColumnCandidates lists the header names accepted for each import kind.
type ColumnCandidates struct {
	Question []string `json:"question"`
	Category []string `json:"category"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Endpoint        string           `json:"endpoint" validate:"required,url"`
	TimeoutSeconds  int              `json:"timeoutSeconds" validate:"gte=0"`
	ReconcileByText bool             `json:"reconcileByText"`
	Columns         ColumnCandidates `json:"columns"`
	LogLevel        string           `json:"logLevel" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultEndpoint is the categorization endpoint used when none is configured.
const DefaultEndpoint = "http://localhost:3000/api/categorize"

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	out := c
	out.Columns = c.Columns.clone()
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Columns = c.Columns.withDefaults()
}
