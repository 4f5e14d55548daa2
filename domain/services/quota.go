package services

// AllowCreation reports whether a guild holding currentCount clocks may create
// another one. The count must be read right before calling; the check and the
// following insert are not atomic, so concurrent creations can overshoot by one.
func AllowCreation(currentCount, max int) bool {
	return currentCount < max
}
