package api

import (
	"errors"
	"net/http"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/domain/editor"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
)

// Kind tags an error with the operation that failed and a sentinel kind
// used to pick the response status.
type Kind struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns a Kind with no underlying cause.
func NewKind(op string, kind error) *Kind {
	return &Kind{Op: op, Kind: kind}
}

// Wrap records op on err, keeping its kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Kind{Op: op, Err: err}
}

// WrapKind records op and kind on err.
func WrapKind(op string, kind, err error) error {
	return &Kind{Op: op, Kind: kind, Err: err}
}

func (k *Kind) Error() string {
	msg := k.Op
	if k.Kind != nil {
		msg += ": " + k.Kind.Error()
	}
	if k.Err != nil {
		msg += ": " + k.Err.Error()
	}
	return msg
}

func (k *Kind) Unwrap() []error {
	out := make([]error, 0, 2)
	if k.Kind != nil {
		out = append(out, k.Kind)
	}
	if k.Err != nil {
		out = append(out, k.Err)
	}
	return out
}

// status maps an error to a response status and code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, editor.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, editor.ErrNoSubmission):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, repository.ErrInvalidID),
		errors.Is(err, editor.ErrUnknownGrade),
		errors.Is(err, editor.ErrUnknownStrength),
		errors.Is(err, editor.ErrUnknownSchool):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, editor.ErrNotReady):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal"
}
