package dataset

import "fmt"

// LoadError reports why the dataset could not be loaded. It is terminal for
// a session: nothing retries.
type LoadError struct {
	Source string // file path or URL
	Op     string // "open", "fetch", "status", "read", "decode"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DataFormatError reports a payload whose shape is not an object of record
// arrays. Bucket is empty when the top level itself is malformed.
type DataFormatError struct {
	Bucket string
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Bucket == "" {
		return "data format: " + e.Reason
	}
	return fmt.Sprintf("data format: bucket %q: %s", e.Bucket, e.Reason)
}
