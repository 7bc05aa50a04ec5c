package trf

import (
	"errors"
	"fmt"

	"github.com/n0madic/go-trf/series"
)

var (
	// ErrInvalidArgument is returned for a malformed argument or option.
	ErrInvalidArgument = errors.New("trf: invalid argument")

	// ErrShapeMismatch is returned when stimulus and response trials cannot
	// be paired. It is the same value as series.ErrShapeMismatch.
	ErrShapeMismatch = series.ErrShapeMismatch

	// ErrNumerical is returned when a regularized system cannot be solved.
	ErrNumerical = errors.New("trf: numerical failure")
)

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
