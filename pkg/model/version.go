package model

import (
	"strconv"
	"strings"
)

// IncrementVersion bumps the trailing numeric segment of a dot-separated version.
//
// Example: "1.0.0.7" becomes "1.0.0.8".
func IncrementVersion(version string) (string, error) {
	parts := strings.Split(version, ".")
	last := parts[len(parts)-1]
	build, err := strconv.ParseUint(last, 10, 63)
	if err != nil || last == "" {
		return "", &VersionFormatError{Version: version}
	}
	parts[len(parts)-1] = strconv.FormatUint(build+1, 10)
	return strings.Join(parts, "."), nil
}
