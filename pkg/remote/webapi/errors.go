package webapi

import (
	"fmt"
	"net/http"

	"github.com/oneconcern/solsync/pkg/remote/status"
)

// APIError is an error reported by the Web API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("web api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("web api: %d %s (%s): %s", e.StatusCode, http.StatusText(e.StatusCode), e.Code, e.Message)
}

// Is matches the remote status errors
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == status.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == status.ErrUnauthorized
	default:
		return target == status.ErrRemote
	}
}

type odataError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
