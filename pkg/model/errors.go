package model

import "fmt"

// VersionFormatError is returned when a version has no numeric trailing segment
type VersionFormatError struct {
	Version string
}

func (e *VersionFormatError) Error() string {
	return fmt.Sprintf("could not increment version %q: last segment is not a number", e.Version)
}
