package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/milan604/http-errors/pkg/apierr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	gvalidator "github.com/go-playground/validator/v10"
)

// Errnos used for binding and validation failures.
const (
	ErrnoInvalidRequest   = 40005
	ErrnoValidationFailed = 42200
)

// Validator is the wrapper around go-playground validator that reports
// failures as *apierr.APIError.
type Validator struct {
	v           *gvalidator.Validate
	n           *apierr.Normalizer
	tagMessages map[string]func(fe gvalidator.FieldError) string
}

// ValidatorEngine defines the interface for validation engines
type ValidatorEngine interface {
	RegisterValidation(tag string, fn gvalidator.Func) error
	RegisterTagMessage(tag string, builder func(gvalidator.FieldError) string)
	Struct(s any) *apierr.APIError
	ParseError(err error) *apierr.APIError
	ParseErrorContext(ctx context.Context, err error) *apierr.APIError
}

// Option configures a Validator.
type Option func(*Validator)

// WithNormalizer builds errors with n instead of apierr.Default().
func WithNormalizer(n *apierr.Normalizer) Option { return func(vi *Validator) { vi.n = n } }

// New creates a new Validator and wires Gin's validator engine for tag->name resolution.
func New(opts ...Option) *Validator {
	fieldNameFn := func(f reflect.StructField) string {
		for _, tag := range []string{"json", "mapstructure", "form", "uri"} {
			if name := getTagName(f, tag); name != "" {
				return name
			}
		}
		return f.Name
	}

	v := gvalidator.New(gvalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldNameFn)
	if be, ok := binding.Validator.Engine().(*gvalidator.Validate); ok {
		be.RegisterTagNameFunc(fieldNameFn)
	}

	vi := &Validator{
		v:           v,
		tagMessages: make(map[string]func(gvalidator.FieldError) string),
	}
	for _, o := range opts {
		o(vi)
	}
	return vi
}

func getTagName(f reflect.StructField, tagName string) string {
	tagValue := f.Tag.Get(tagName)
	if tagValue == "-" {
		return ""
	}
	return strings.SplitN(tagValue, ",", 2)[0]
}

func (vi *Validator) normalizer() *apierr.Normalizer {
	if vi.n != nil {
		return vi.n
	}
	return apierr.Default()
}

// RegisterValidation registers a custom validator (name) to the engine.
func (vi *Validator) RegisterValidation(tag string, fn gvalidator.Func) error {
	return vi.v.RegisterValidation(tag, fn)
}

// RegisterTagMessage overrides the message produced for a failed tag.
func (vi *Validator) RegisterTagMessage(tag string, builder func(gvalidator.FieldError) string) {
	vi.tagMessages[tag] = builder
}

// Struct validates s and returns nil when it is valid.
func (vi *Validator) Struct(s any) *apierr.APIError {
	if err := vi.v.Struct(s); err != nil {
		return vi.ParseError(err)
	}
	return nil
}

// ParseError converts any binding/validator/json error into *apierr.APIError.
// The original error is kept as the tracked cause.
func (vi *Validator) ParseError(err error) *apierr.APIError {
	return vi.ParseErrorContext(context.Background(), err)
}

// ParseErrorContext is ParseError reusing the request id stored in ctx.
func (vi *Validator) ParseErrorContext(ctx context.Context, err error) *apierr.APIError {
	if err == nil {
		return nil
	}

	var (
		ve  gvalidator.ValidationErrors
		ute *json.UnmarshalTypeError
		se  *json.SyntaxError
		pe  *time.ParseError
	)
	switch {
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, vi.buildMessageForField(fe))
		}
		return vi.build(ctx, ErrnoValidationFailed, strings.Join(msgs, "; "), err)

	case errors.As(err, &ute):
		if ute.Field == "" {
			return vi.build(ctx, ErrnoInvalidRequest, "", err)
		}
		return vi.build(ctx, ErrnoInvalidRequest, fmt.Sprintf("invalid type for field %s: expected %s", ute.Field, ute.Type), err)

	case errors.As(err, &se):
		return vi.build(ctx, ErrnoInvalidRequest, "invalid JSON payload", err)

	case errors.As(err, &pe):
		return vi.build(ctx, ErrnoValidationFailed, "invalid datetime format", err)

	default:
		return vi.build(ctx, ErrnoInvalidRequest, fmt.Sprintf("invalid input: %v", err), err)
	}
}

// build resolves errno through the registries so the default message comes
// from the errno table; msg, when set, replaces it.
func (vi *Validator) build(ctx context.Context, errno int, msg string, cause error) *apierr.APIError {
	n := vi.normalizer()
	o := n.Resolve(apierr.Number(errno))
	if msg != "" {
		o.Message = msg
	}
	o.TrackError = cause
	o.RequestID = apierr.RequestIDFromContext(ctx)
	return n.FromInput(o)
}

func (vi *Validator) buildMessageForField(fe gvalidator.FieldError) string {
	if b, ok := vi.tagMessages[fe.Tag()]; ok && b != nil {
		return b(fe)
	}
	if fe.Param() != "" {
		return fmt.Sprintf("field %s failed on '%s' validation (param=%s)", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("field %s failed on '%s' validation", fe.Field(), fe.Tag())
}

/* ------------------------------
   Binding helpers (Gin friendly)
   The request id placed on the request context by the request id
   middleware is reused for the returned error.
--------------------------------*/

// BindJSON binds and validates JSON body into T.
func BindJSON[T any](vi ValidatorEngine, ctx *gin.Context) (*T, *apierr.APIError) {
	var req T
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, vi.ParseErrorContext(ctx.Request.Context(), err)
	}
	return &req, nil
}

// BindQuery binds & validates query parameters
func BindQuery[T any](vi ValidatorEngine, ctx *gin.Context) (*T, *apierr.APIError) {
	var req T
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return nil, vi.ParseErrorContext(ctx.Request.Context(), err)
	}
	return &req, nil
}

// BindURI binds & validates uri params
func BindURI[T any](vi ValidatorEngine, ctx *gin.Context) (*T, *apierr.APIError) {
	var req T
	if err := ctx.ShouldBindUri(&req); err != nil {
		return nil, vi.ParseErrorContext(ctx.Request.Context(), err)
	}
	return &req, nil
}

// BindHeader binds & validates header params
func BindHeader[T any](vi ValidatorEngine, ctx *gin.Context) (*T, *apierr.APIError) {
	var req T
	if err := ctx.ShouldBindHeader(&req); err != nil {
		return nil, vi.ParseErrorContext(ctx.Request.Context(), err)
	}
	return &req, nil
}
