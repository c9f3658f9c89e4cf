package apierr

import "sync/atomic"

// std is set during variable initialization so package-level entities
// built with From have a normalizer.
var std = func() *atomic.Pointer[Normalizer] {
	p := new(atomic.Pointer[Normalizer])
	p.Store(NewNormalizer())
	return p
}()

// Default returns the process-wide Normalizer.
func Default() *Normalizer { return std.Load() }

// SetDefault replaces the process-wide Normalizer. Call it at startup.
func SetDefault(n *Normalizer) {
	if n == nil {
		n = NewNormalizer()
	}
	std.Store(n)
}

// From normalizes v with the default Normalizer.
func From(v any) *APIError { return Default().From(v) }

// New is an alias of From.
func New(v any) *APIError { return Default().From(v) }

// Abort normalizes v with the default Normalizer and panics with the result.
func Abort(v any, cause ...error) { Default().Abort(v, cause...) }

// Abort normalizes v and panics with the *APIError. The first non-nil cause
// replaces the tracked error on a copy of the entity, so a shared entity
// such as a package-level var is never modified.
func (n *Normalizer) Abort(v any, cause ...error) {
	e := n.From(v)
	for _, c := range cause {
		if c != nil {
			e = e.withTrackError(c)
			break
		}
	}
	panic(e)
}

// Recover converts an Abort panic into *errp. It must be deferred directly.
// Panics not carrying an *APIError are re-raised.
//
//	func handle() (err error) {
//		defer apierr.Recover(&err)
//		...
//	}
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(*APIError)
	if !ok {
		panic(r)
	}
	if errp != nil {
		*errp = e
	}
}

// Catch runs fn and returns the *APIError it aborted with, or nil.
func Catch(fn func()) (e *APIError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ae, ok := r.(*APIError)
		if !ok {
			panic(r)
		}
		e = ae
	}()
	fn()
	return nil
}
