package types

import (
	"errors"
	"fmt"
)

// RetrievalError signals that the semantic index or embedder misbehaved.
// The tier resolver recovers from it by advancing to the next tier.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func NewRetrievalError(op string, err error) *RetrievalError {
	return &RetrievalError{Op: op, Err: err}
}

// ExternalServiceError carries the endpoint and HTTP status of a failed
// location/facility API call. A tier miss for the resolver, a failed center
// in batch context.
type ExternalServiceError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *ExternalServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("external service %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("external service %s: %v", e.Endpoint, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewExternalServiceError(endpoint string, status int, err error) *ExternalServiceError {
	return &ExternalServiceError{Endpoint: endpoint, Status: status, Err: err}
}

// GenerationError is returned when the text-generation API fails for good:
// either retries were exhausted or a client error made retrying pointless.
type GenerationError struct {
	Attempts   int
	LastStatus int
	Retryable  bool
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation failed after %d attempt(s) (last status %d): %v",
		e.Attempts, e.LastStatus, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func NewGenerationError(attempts, lastStatus int, retryable bool, err error) *GenerationError {
	return &GenerationError{Attempts: attempts, LastStatus: lastStatus, Retryable: retryable, Err: err}
}

// IsRetryableStatus reports whether an HTTP status from the text-gen provider
// is worth another attempt. Client errors are not: a bad key stays bad.
func IsRetryableStatus(status int) bool {
	if status >= 400 && status < 500 {
		return false
	}
	return true
}

// ErrRunNotFound is returned by run stores for unknown run IDs.
var ErrRunNotFound = errors.New("batch run not found")
