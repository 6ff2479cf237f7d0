package copier

import (
	"errors"
)

var (
	ErrUnauthorized    = errors.New("poster not in network")
	ErrMissingMetadata = errors.New("no title in url info")
	ErrAlreadyExists   = errors.New("item already exists")
	ErrServiceFailure  = errors.New("service returned an error")
)

type Kind int

const (
	KindServiceFailure Kind = iota
	KindUnauthorized
	KindMissingMetadata
	KindAlreadyExists
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindMissingMetadata:
		return "missing_metadata"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return "service_failure"
	}
}

// Fatal reports whether an error of this kind aborts the whole run.
func (k Kind) Fatal() bool {
	return k == KindServiceFailure
}

// KindOf maps an error to its kind. Errors that wrap none of the known
// sentinels are service failures.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrMissingMetadata):
		return KindMissingMetadata
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	default:
		return KindServiceFailure
	}
}
