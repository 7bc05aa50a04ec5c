package trf

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/n0madic/go-trf/covmat"
	"github.com/n0madic/go-trf/series"
)

// Method is the regularization topology.
type Method int

const (
	// Ridge penalizes weight magnitude. The bias is never penalized.
	Ridge Method = iota
	// Tikhonov penalizes the second difference of adjacent weights.
	// Adjacent features of different variables are coupled too, so the
	// penalty leaks across channels in multivariate designs.
	Tikhonov
	// OLS disables regularization; lambda is forced to zero.
	OLS
)

var methodNames = []string{Ridge: "ridge", Tikhonov: "Tikhonov", OLS: "ols"}

func (m Method) String() string {
	if m.valid() {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func (m Method) valid() bool {
	return m >= Ridge && m <= OLS
}

// ParseMethod resolves an unambiguous, case-sensitive prefix of "ridge",
// "Tikhonov" or "ols".
func ParseMethod(s string) (Method, error) {
	i, err := matchPrefix("method", s, methodNames)
	return Method(i), err
}

// Type selects between one joint model and one model per lag.
type Type int

const (
	// Multi fits one model on all lags jointly.
	Multi Type = iota
	// Single fits an independent model for every lag.
	Single
)

var typeNames = []string{Multi: "multi", Single: "single"}

func (t Type) String() string {
	if t.valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) valid() bool {
	return t == Multi || t == Single
}

func (t Type) mode() covmat.Mode {
	if t == Single {
		return covmat.PerLag
	}
	return covmat.Joint
}

// ParseType resolves an unambiguous, case-sensitive prefix of "multi" or
// "single".
func ParseType(s string) (Type, error) {
	i, err := matchPrefix("type", s, typeNames)
	return Type(i), err
}

// Direction is the modelling direction.
type Direction int

const (
	// Forward models predict the response from the stimulus (encoding).
	Forward Direction = 1
	// Backward models predict the stimulus from the response (decoding).
	Backward Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func (d Direction) valid() bool {
	return d == Forward || d == Backward
}

// ParseDirection converts +1 or -1 to a Direction.
func ParseDirection(d int) (Direction, error) {
	if dir := Direction(d); dir.valid() {
		return dir, nil
	}
	return 0, invalidArgf("direction must be 1 or -1, got %d", d)
}

// matchPrefix returns the index of the unique name that starts with s.
// An exact match always wins.
func matchPrefix(what, s string, names []string) (int, error) {
	if s == "" {
		return 0, invalidArgf("%s must not be empty", what)
	}
	found := -1
	for i, name := range names {
		if name == s {
			return i, nil
		}
		if strings.HasPrefix(name, s) {
			if found >= 0 {
				return 0, invalidArgf("%s %q is ambiguous", what, s)
			}
			found = i
		}
	}
	if found < 0 {
		return 0, invalidArgf("%s %q must be one of %s", what, s, strings.Join(names, ", "))
	}
	return found, nil
}

type config struct {
	dim     series.Dim
	method  Method
	typ     Type
	split   int
	zeropad bool
	logger  *zap.Logger
	err     error // first option error, reported by Fit
}

func defaultConfig() config {
	return config{
		dim:     series.ObsRows,
		method:  Ridge,
		typ:     Multi,
		split:   1,
		zeropad: true,
		logger:  zap.NewNop(),
	}
}

func (c *config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *config) validate() error {
	if c.err != nil {
		return c.err
	}
	if !c.dim.Valid() {
		return invalidArgf("dim must be 1 or 2, got %d", c.dim)
	}
	if !c.method.valid() {
		return invalidArgf("unknown method %v", c.method)
	}
	if !c.typ.valid() {
		return invalidArgf("unknown type %v", c.typ)
	}
	if c.split < 1 {
		return invalidArgf("split must be a positive integer, got %d", c.split)
	}
	return nil
}

// Option configures Fit.
type Option func(*config)

// WithDim sets the observation axis of the input tables (default rows).
func WithDim(dim series.Dim) Option {
	return func(c *config) {
		c.dim = dim
	}
}

// WithMethod sets the regularization method (default Ridge).
func WithMethod(method Method) Option {
	return func(c *config) {
		c.method = method
	}
}

// WithMethodName sets the regularization method from a name prefix.
func WithMethodName(name string) Option {
	return func(c *config) {
		m, err := ParseMethod(name)
		if err != nil {
			c.fail(err)
			return
		}
		c.method = m
	}
}

// WithType sets the model type (default Multi).
func WithType(typ Type) Option {
	return func(c *config) {
		c.typ = typ
	}
}

// WithTypeName sets the model type from a name prefix.
func WithTypeName(name string) Option {
	return func(c *config) {
		t, err := ParseType(name)
		if err != nil {
			c.fail(err)
			return
		}
		c.typ = t
	}
}

// WithSplit sets the number of segments each trial is cut into while
// accumulating covariances (default 1).
func WithSplit(split int) Option {
	return func(c *config) {
		c.split = split
	}
}

// WithZeroPad controls whether the lagged design is zero padded (default
// true) or truncated to rows where every lag is observed.
func WithZeroPad(zeropad bool) Option {
	return func(c *config) {
		c.zeropad = zeropad
	}
}

// WithLogger sets the logger used for debug output. A nil logger disables
// logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	}
}
