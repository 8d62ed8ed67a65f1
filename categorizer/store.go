package categorizer

import "sync"

// State is a snapshot of everything the pipeline holds. Every field is replaced wholesale by
// the store actions; slices in a snapshot must not be mutated.
type State struct {
	Questions       []Question
	Categories      []Category
	QuestionPreview []RawRow
	CategoryPreview []RawRow
	Results         []Result

	Loading bool
	Err     error

	Selected   string
	DetailOpen bool
}

// Aggregation recomputes the category counts of the held results.
func (s State) Aggregation() Aggregation {
	return Aggregate(s.Results)
}

// Ready reports whether both lists are loaded.
func (s State) Ready() bool {
	return len(s.Questions) > 0 && len(s.Categories) > 0
}

// Detail returns the drill-down rows for the selected category.
func (s State) Detail() []DetailRow {
	if s.Selected == "" {
		return nil
	}
	return DetailRows(s.Results, s.Selected)
}

// Store holds the application state and notifies subscribers after every action.
// Snapshots reach subscribers in the order the actions were applied.
type Store struct {
	mu         sync.Mutex
	state      State
	generation uint64
	nextSubID  int
	subs       []subscription

	pending    []State
	delivering bool
}

type subscription struct {
	id int
	fn func(State)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive the state after each change. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// update applies fn and queues the resulting snapshot. The first caller to find the queue idle
// delivers every queued snapshot in order; callers that arrive meanwhile, including subscribers
// acting from inside a notification, only enqueue.
func (s *Store) update(fn func(*State) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	s.pending = append(s.pending, s.state)
	if s.delivering {
		s.mu.Unlock()
		return true
	}
	s.delivering = true
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		subs := make([]func(State), len(s.subs))
		for i, sub := range s.subs {
			subs[i] = sub.fn
		}
		s.mu.Unlock()
		for _, fn := range subs {
			fn(next)
		}
		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
	return true
}

// SetQuestions replaces the question list and its preview.
func (s *Store) SetQuestions(questions []Question, preview []RawRow) {
	s.update(func(st *State) bool {
		st.Questions = questions
		st.QuestionPreview = preview
		return true
	})
}

// SetCategories replaces the category list and its preview.
func (s *Store) SetCategories(categories []Category, preview []RawRow) {
	s.update(func(st *State) bool {
		st.Categories = categories
		st.CategoryPreview = preview
		return true
	})
}

// BeginCategorize marks a categorization as in flight and returns its generation token.
// Only the most recent token can apply results.
func (s *Store) BeginCategorize() uint64 {
	var token uint64
	s.update(func(st *State) bool {
		s.generation++
		token = s.generation
		st.Loading = true
		st.Err = nil
		return true
	})
	return token
}

// ApplyResults replaces the result set if token is still the latest request.
func (s *Store) ApplyResults(token uint64, results []Result) bool {
	return s.update(func(st *State) bool {
		if token != s.generation {
			return false
		}
		st.Results = results
		st.Loading = false
		st.Err = nil
		return true
	})
}

// FailCategorize records err if token is still the latest request. Held results are kept.
func (s *Store) FailCategorize(token uint64, err error) bool {
	return s.update(func(st *State) bool {
		if token != s.generation {
			return false
		}
		st.Loading = false
		st.Err = err
		return true
	})
}

// Select opens the detail view for category. Selecting the same category again refreshes it.
func (s *Store) Select(category string) {
	s.update(func(st *State) bool {
		st.Selected = category
		st.DetailOpen = true
		return true
	})
}

// CloseDetail hides the detail view. The selection is kept.
func (s *Store) CloseDetail() {
	s.update(func(st *State) bool {
		if !st.DetailOpen {
			return false
		}
		st.DetailOpen = false
		return true
	})
}
