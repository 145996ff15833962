package model

// Result is the outcome of a successful single-file conversion
type Result struct {
	Input    string
	Output   string
	Category Category
}

// Failure records an input that could not be converted
type Failure struct {
	Input string
	Err   error
}

// BatchResult holds the outcome of a batch run. Both lists follow the
// directory iteration order.
type BatchResult struct {
	Succeeded []Result
	Failed    []Failure
}

// Total returns the number of files the batch attempted
func (r BatchResult) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// HasFailures reports whether any file failed
func (r BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}
