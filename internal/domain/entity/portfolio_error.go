package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks user input rejected before any network call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// FetchError describes a degraded sub-request that was skipped while
// building a report. It never aborts the aggregation.
type FetchError struct {
	Address  string `json:"address,omitempty"`
	Source   string `json:"source"`
	CoinType string `json:"coinType,omitempty"`
	ObjectID string `json:"objectId,omitempty"`
	Message  string `json:"message"`
}

// UpstreamError is returned when an external HTTP service answers with a non-2xx status.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Service, e.StatusCode, e.Body)
}
