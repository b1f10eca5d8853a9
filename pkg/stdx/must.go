package stdx

// Must0 panics when err is not nil. Use it only where an error indicates a
// programming mistake rather than a runtime condition.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v when err is nil and panics otherwise. Handy when wiring up
// executors in examples and tests where construction cannot reasonably fail.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
