package apierr

import (
	"context"
	"strconv"

	"github.com/milan604/http-errors/pkg/logger"
	"github.com/milan604/http-errors/pkg/utils"
)

// TypeName is the default Name of every APIError.
const TypeName = "APIError"

// Defaults are the values used when no input shape supplies a field.
type Defaults struct {
	Errno           int    `mapstructure:"errno" validate:"gte=0"`
	Status          int    `mapstructure:"status" validate:"gte=0,lte=999"`
	Message         string `mapstructure:"message"`
	RequestIDLength int    `mapstructure:"request_id_length" validate:"gte=0,lte=256"`
}

// DefaultDefaults returns errno 40000, status 400, "UnknownError" and 16.
func DefaultDefaults() Defaults {
	return Defaults{
		Errno:           40000,
		Status:          400,
		Message:         "UnknownError",
		RequestIDLength: DefaultRequestIDLength,
	}
}

// Normalizer turns arbitrary inputs into APIError values. It is immutable
// once built and may be shared by any number of goroutines.
type Normalizer struct {
	statuses *Registry
	errnos   *Registry
	ids      *RequestIDGenerator
	defaults Defaults
	log      logger.LogManager
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStatusRegistry replaces the status -> reason phrase table.
func WithStatusRegistry(r *Registry) Option { return func(n *Normalizer) { n.statuses = r } }

// WithErrnoRegistry replaces the errno -> message table.
func WithErrnoRegistry(r *Registry) Option { return func(n *Normalizer) { n.errnos = r } }

// WithDefaults replaces the fallback values. Zero fields keep the built-in default.
func WithDefaults(d Defaults) Option {
	return func(n *Normalizer) {
		base := DefaultDefaults()
		n.defaults = Defaults{
			Errno:           utils.CoalesceVal(d.Errno, base.Errno),
			Status:          utils.CoalesceVal(d.Status, base.Status),
			Message:         utils.CoalesceVal(d.Message, base.Message),
			RequestIDLength: utils.CoalesceVal(d.RequestIDLength, base.RequestIDLength),
		}
	}
}

// WithLogger sets the logger used for malformed input warnings.
func WithLogger(l logger.LogManager) Option { return func(n *Normalizer) { n.log = l } }

// WithRequestIDGenerator replaces the request id generator.
func WithRequestIDGenerator(g *RequestIDGenerator) Option {
	return func(n *Normalizer) { n.ids = g }
}

// NewNormalizer builds a Normalizer with the default registries unless
// overridden by opts.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		statuses: DefaultStatusRegistry(),
		errnos:   DefaultErrnoRegistry(),
		ids:      NewRequestIDGenerator(),
		defaults: DefaultDefaults(),
	}
	for _, o := range opts {
		o(n)
	}
	if n.statuses == nil {
		n.statuses = NewRegistry(nil)
	}
	if n.errnos == nil {
		n.errnos = NewRegistry(nil)
	}
	if n.ids == nil {
		n.ids = NewRequestIDGenerator()
	}
	if n.log == nil {
		n.log = defaultLogger()
	}
	return n
}

// defaultLogger writes warnings to stderr.
func defaultLogger() logger.LogManager {
	l, err := logger.NewLogger(logger.LoggerOptions{
		Level:       "warn",
		Encoding:    "console",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logger.NewNop()
	}
	return l.With("component", "apierr")
}

// StatusRegistry returns the status table in use.
func (n *Normalizer) StatusRegistry() *Registry { return n.statuses }

// ErrnoRegistry returns the errno table in use.
func (n *Normalizer) ErrnoRegistry() *Registry { return n.errnos }

// Defaults returns the fallback values in use.
func (n *Normalizer) Defaults() Defaults { return n.defaults }

// GenerateRequestID returns a fresh id of the configured length.
func (n *Normalizer) GenerateRequestID() string {
	return n.ids.Generate(n.defaults.RequestIDLength)
}

// Resolve applies the per-shape rules and returns the candidate fields
// before defaulting. It never fails. For *APIError input the entity's own
// fields are returned.
func (n *Normalizer) Resolve(in Input) Options {
	switch x := in.(type) {
	case Number:
		return n.resolveNumber(int(x))
	case Message:
		return Options{Message: string(x)}
	case Fields:
		return x.options()
	case Options:
		return x
	case Cause:
		if x.Err == nil {
			return n.resolveUnrecognized(nil)
		}
		return Options{TrackError: x.Err}
	case *APIError:
		return x.options()
	case Unrecognized:
		return n.resolveUnrecognized(x.Value)
	default:
		return n.resolveUnrecognized(in)
	}
}

func (n *Normalizer) resolveNumber(v int) Options {
	if text, ok := n.statuses.Lookup(v); ok {
		return Options{Status: v, Errno: v * 100, Message: text}
	}
	status := statusPrefix(v)
	o := Options{Errno: v, Status: status}
	if msg, ok := n.errnos.Lookup(v); ok {
		o.Message = msg
	} else if text, ok := n.statuses.Lookup(status); ok {
		o.Message = text
	}
	return o
}

func (n *Normalizer) resolveUnrecognized(v any) Options {
	n.log.WarnF("unrecognized api error input: %#v", v)
	return Options{TrackError: v}
}

// statusPrefix returns the number formed by the first three characters of
// the decimal rendering of v.
func statusPrefix(v int) int {
	s := strconv.Itoa(v)
	if len(s) > 3 {
		s = s[:3]
	}
	status, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return status
}

// From returns v unchanged when it already is (or wraps) an *APIError and
// builds a new entity otherwise.
func (n *Normalizer) From(v any) *APIError {
	return n.FromInput(Classify(v))
}

// FromInput is From for an already classified input.
func (n *Normalizer) FromInput(in Input) *APIError {
	if ae, ok := in.(*APIError); ok {
		return ae
	}
	return n.build(n.Resolve(in), "")
}

// FromContext is From, except that a request id stored in ctx by
// ContextWithRequestID is used when the input carries none.
func (n *Normalizer) FromContext(ctx context.Context, v any) *APIError {
	in := Classify(v)
	if ae, ok := in.(*APIError); ok {
		return ae
	}
	return n.build(n.Resolve(in), RequestIDFromContext(ctx))
}

func (n *Normalizer) build(o Options, requestID string) *APIError {
	d := n.defaults
	e := &APIError{
		name:       utils.CoalesceVal(o.Name, TypeName),
		errno:      utils.CoalesceVal(o.Errno, o.Code, d.Errno),
		status:     utils.CoalesceVal(o.Status, o.StatusCode, d.Status),
		message:    utils.CoalesceVal(o.Message, o.ErrorMsg, d.Message),
		requestID:  utils.CoalesceVal(o.RequestID, requestID),
		trackError: o.TrackError,
	}
	if e.requestID == "" {
		e.requestID = n.GenerateRequestID()
	}
	return e
}

// ContextWithRequestID stores id under logger.RequestIDKey for FromContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, logger.RequestIDKey, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(logger.RequestIDKey).(string)
	return id
}
