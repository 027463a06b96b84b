package harvest

// ItemRecord is one discovered product reference. URL is its identity.
type ItemRecord struct {
	URL        string `json:"url"`
	HasVariant bool   `json:"hasVariant"`
}

// CollectedSet is an insertion-ordered set of records keyed by URL.
// It only grows.
type CollectedSet struct {
	items []ItemRecord
	index map[string]struct{}
}

// NewCollectedSet seeds a set from records, keeping the first occurrence of
// any repeated URL.
func NewCollectedSet(seed ...ItemRecord) *CollectedSet {
	s := &CollectedSet{
		items: make([]ItemRecord, 0, len(seed)),
		index: make(map[string]struct{}, len(seed)),
	}
	s.Add(seed...)
	return s
}

// Add appends records whose URL is new and returns the ones it kept.
// Empty URLs are ignored.
func (s *CollectedSet) Add(records ...ItemRecord) []ItemRecord {
	var added []ItemRecord
	for _, r := range records {
		if r.URL == "" {
			continue
		}
		if _, ok := s.index[r.URL]; ok {
			continue
		}
		s.index[r.URL] = struct{}{}
		s.items = append(s.items, r)
		added = append(added, r)
	}
	return added
}

// Contains reports whether url has been collected.
func (s *CollectedSet) Contains(url string) bool {
	_, ok := s.index[url]
	return ok
}

// Len returns the number of records.
func (s *CollectedSet) Len() int {
	return len(s.items)
}

// URLs returns the collected URLs in discovery order.
func (s *CollectedSet) URLs() []string {
	urls := make([]string, len(s.items))
	for i, r := range s.items {
		urls[i] = r.URL
	}
	return urls
}

// Items returns a copy of the records in discovery order.
func (s *CollectedSet) Items() []ItemRecord {
	out := make([]ItemRecord, len(s.items))
	copy(out, s.items)
	return out
}

// StopReason says why Collect returned.
type StopReason string

const (
	StopTargetReached       StopReason = "target-reached"
	StopAttemptsExhausted   StopReason = "attempts-exhausted"
	StopPaginationExhausted StopReason = "pagination-exhausted"
	StopCancelled           StopReason = "cancelled"
)

// Result is the outcome of Collect. Items may hold fewer records than Target.
type Result struct {
	Items      *CollectedSet
	Target     int
	Attempts   int
	Iterations int
	Reason     StopReason
}

// Fulfilled reports whether the target count was reached.
func (r *Result) Fulfilled() bool {
	return r.Items.Len() >= r.Target
}
