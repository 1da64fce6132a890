package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidID indicates an identifier that the server could never have assigned
	ErrInvalidID = errors.New("invalid entity id")

	// ErrEmptyName indicates a create/update payload without a name
	ErrEmptyName = errors.New("name is required")

	// ErrUnknownFamily indicates a family name outside the closed set
	ErrUnknownFamily = errors.New("unknown instrument family")

	// ErrUnknownRelationType indicates a relation type outside the closed set
	ErrUnknownRelationType = errors.New("unknown relation type")

	// ErrServerOffline indicates the API is unreachable
	ErrServerOffline = errors.New("api server is unreachable")
)

// FallbackMessage is shown when neither the server nor the transport said anything useful.
const FallbackMessage = "network error"

// NetworkError is a transport failure: no response was received.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return FallbackMessage
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrServerOffline) match any transport failure.
func (e *NetworkError) Is(target error) bool { return target == ErrServerOffline }

// APIError is a non-2xx answer. Message and Detail come from the
// {success:false, message, error} body when the server sent one.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if msg := e.userMessage(); msg != "" {
		return msg
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) userMessage() string {
	if m := strings.TrimSpace(e.Message); m != "" {
		return m
	}
	return strings.TrimSpace(e.Detail)
}

// Is maps 404 answers onto ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// ValidationError is a relation-cardinality rejection, from the server or
// from the advisory client-side check.
type ValidationError struct {
	Relation CreateRelation
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid relation %s %d->%d: %s", e.Relation.Type, e.Relation.SourceID, e.Relation.TargetID, e.Reason)
}

// Message normalizes err into the single line shown to the user:
// the server message, else the server error, else the transport message,
// else FallbackMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.userMessage(); msg != "" {
			return msg
		}
		return apiErr.Error()
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Reason
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Err != nil {
			if msg := strings.TrimSpace(netErr.Err.Error()); msg != "" {
				return msg
			}
		}
		return FallbackMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}
