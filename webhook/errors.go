package webhook

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels reachable through errors.Is on the typed errors below
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("webhook not found")
	ErrPersistence = errors.New("persisting state failed")
	ErrDelivery    = errors.New("delivery failed")
)

// ValidationError reports bad caller input on registration, update or trigger
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an unknown subscription id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

/* PersistenceError is returned after an in-memory mutation succeeded but the durable write failed
 * The in-memory state stays authoritative until the next successful save
 */
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// ErrorKind classifies a failed delivery attempt
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindTimeout
	KindStatus
	KindEncoding
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

/* DeliveryError describes why a single attempt failed
 * It never escapes the engine, it is carried inside a DeliveryResult
 */
type DeliveryError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: unexpected status code %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }
