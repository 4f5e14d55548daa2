package entities

// RefreshSummary counts what a refresh pass did to the registered clocks
type RefreshSummary struct {
	Edited  int
	Skipped int
	Failed  int
	Removed int64
}

// Total is the number of clocks the pass looked at
func (s RefreshSummary) Total() int {
	return s.Edited + s.Skipped + s.Failed + int(s.Removed)
}
