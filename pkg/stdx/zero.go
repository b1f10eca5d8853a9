package stdx

// Zero returns the zero value for the type T. It exists so blocking result
// accessors can bail out with a typed empty value without declaring a
// throwaway variable at every call site.
func Zero[T any]() T {
	var zero T
	return zero
}
