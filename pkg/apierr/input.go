package apierr

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
)

// Input is the set of shapes accepted by the factory. The concrete
// variants are Number, Message, Fields, Options, Cause, *APIError and
// Unrecognized. Classify maps arbitrary values onto one of them.
type Input interface {
	isInput()
}

// Number is an integer that is either an HTTP status or an errno.
// Registry membership decides which.
type Number int

// Message is a bare client-facing message.
type Message string

// Fields is a loose options object, typically decoded from JSON or built
// inline. Recognized keys are errno, code, status, status_code, message,
// error_msg, name, request_id, trackError and track_error.
type Fields map[string]any

// Options is the typed form of Fields. Code, StatusCode and ErrorMsg are
// aliases consulted after Errno, Status and Message respectively.
type Options struct {
	Errno      int    `json:"errno,omitempty"`
	Code       int    `json:"code,omitempty"`
	Status     int    `json:"status,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message,omitempty"`
	ErrorMsg   string `json:"error_msg,omitempty"`
	Name       string `json:"name,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	TrackError any    `json:"trackError,omitempty"`
}

// Cause is a foreign error to be retained for diagnostics.
type Cause struct {
	Err error
}

// Unrecognized holds a value of an unsupported shape, nil included.
type Unrecognized struct {
	Value any
}

func (Number) isInput()       {}
func (Message) isInput()      {}
func (Fields) isInput()       {}
func (Options) isInput()      {}
func (Cause) isInput()        {}
func (Unrecognized) isInput() {}
func (*APIError) isInput()    {}

// Classify maps v onto the Input sum type.
func Classify(v any) Input {
	switch x := v.(type) {
	case nil:
		return Unrecognized{}
	case *APIError:
		if x == nil {
			return Unrecognized{Value: v}
		}
		return x
	case Input:
		return x
	case string:
		return Message(x)
	case map[string]any:
		return Fields(x)
	case *Options:
		if x == nil {
			return Unrecognized{Value: v}
		}
		return *x
	case json.Number:
		if n, ok := toInt(x); ok {
			return Number(n)
		}
		return Unrecognized{Value: v}
	case error:
		if isNilValue(x) {
			return Unrecognized{Value: v}
		}
		var ae *APIError
		if errors.As(x, &ae) && ae != nil {
			return ae
		}
		return Cause{Err: x}
	}
	if n, ok := toInt(v); ok {
		return Number(n)
	}
	return Unrecognized{Value: v}
}

// toInt accepts any integer kind, integral floats and json.Number.
func toInt(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			if i < math.MinInt || i > math.MaxInt {
				return 0, false
			}
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, false
		}
		return int(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float())
	}
	return 0, false
}

// floatToInt accepts integral floats within the int range.
func floatToInt(f float64) (int, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt || f >= -math.MinInt {
		return 0, false
	}
	return int(f), true
}

// isNilValue reports whether v is an interface holding a nil pointer, map,
// slice, func or chan.
func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// options converts a Fields map into Options. Keys with values of the
// wrong type are ignored.
func (f Fields) options() Options {
	var o Options
	intField := func(key string) int {
		if n, ok := toInt(f[key]); ok {
			return n
		}
		return 0
	}
	strField := func(key string) string {
		s, _ := f[key].(string)
		return s
	}
	o.Errno = intField("errno")
	o.Code = intField("code")
	o.Status = intField("status")
	o.StatusCode = intField("status_code")
	o.Message = strField("message")
	o.ErrorMsg = strField("error_msg")
	o.Name = strField("name")
	o.RequestID = strField("request_id")
	if te, ok := f["trackError"]; ok && te != nil {
		o.TrackError = te
	} else if te, ok := f["track_error"]; ok && te != nil {
		o.TrackError = te
	}
	return o
}
