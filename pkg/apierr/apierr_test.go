package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milan604/http-errors/pkg/logger"
)

func TestFromStatusCodes(t *testing.T) {
	n := NewNormalizer()
	for _, status := range n.StatusRegistry().Codes() {
		e := n.From(status)
		text, _ := n.StatusRegistry().Lookup(status)
		assert.Equal(t, status, e.Status(), "status %d", status)
		assert.Equal(t, status*100, e.Errno(), "status %d", status)
		assert.Equal(t, text, e.Message(), "status %d", status)
	}
}

func TestFromErrnos(t *testing.T) {
	n := NewNormalizer()
	tests := []struct {
		errno   int
		status  int
		message string
	}{
		{40100, 401, "User Require Login"},
		{40005, 400, "Invalid Http Request"},
		{40000, 400, "Unknown Error"},
		{40412, 404, "Not Found"},
		{50301, 503, "Service Unavailable"},
		{99901, 999, "UnknownError"},
		{12, 12, "UnknownError"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.errno), func(t *testing.T) {
			e := n.From(tt.errno)
			assert.Equal(t, tt.errno, e.Errno())
			assert.Equal(t, tt.status, e.Status())
			assert.Equal(t, tt.message, e.Message())
			assert.Nil(t, e.TrackError())
		})
	}
}

func TestFromScenarios(t *testing.T) {
	e := From(404)
	assert.Equal(t, 404, e.Status())
	assert.Equal(t, 40400, e.Errno())
	assert.Equal(t, "Not Found", e.Message())

	e = From(40100)
	assert.Equal(t, 401, e.Status())
	assert.Equal(t, 40100, e.Errno())
	assert.Equal(t, "User Require Login", e.Message())

	e = From("boom")
	assert.Equal(t, 400, e.Status())
	assert.Equal(t, 40000, e.Errno())
	assert.Equal(t, "boom", e.Message())

	e = From(map[string]any{"errno": 40102, "message": "require re-login"})
	assert.Equal(t, 400, e.Status())
	assert.Equal(t, 40102, e.Errno())
	assert.Equal(t, "require re-login", e.Message())
}

func TestFromStringDefaults(t *testing.T) {
	for _, m := range []string{"boom", "", "Test HTTP ERRORS"} {
		e := From(m)
		assert.Equal(t, 400, e.Status())
		assert.Equal(t, 40000, e.Errno())
		if m == "" {
			assert.Equal(t, "UnknownError", e.Message())
		} else {
			assert.Equal(t, m, e.Message())
		}
		assert.Equal(t, TypeName, e.Name())
	}
}

func TestFromIsIdempotent(t *testing.T) {
	first := From(404)
	again := From(first)
	assert.Same(t, first, again)
	assert.Equal(t, first.RequestID(), again.RequestID())

	wrapped := fmt.Errorf("handler: %w", first)
	assert.Same(t, first, From(wrapped))
}

func TestFromForeignError(t *testing.T) {
	cause := errors.New("connection refused")
	e := From(cause)
	assert.Equal(t, 40000, e.Errno())
	assert.Equal(t, 400, e.Status())
	assert.Equal(t, "UnknownError", e.Message())
	assert.Equal(t, cause, e.TrackError())
	assert.ErrorIs(t, e, cause)
}

func TestFromFieldsAliases(t *testing.T) {
	cause := errors.New("dup key")
	e := From(Fields{
		"code":        40900,
		"status_code": 409,
		"error_msg":   "duplicated",
		"trackError":  cause,
		"name":        "ConflictError",
		"request_id":  "X0101000000TABCD",
		"ignored":     true,
	})
	assert.Equal(t, 40900, e.Errno())
	assert.Equal(t, 409, e.Status())
	assert.Equal(t, "duplicated", e.Message())
	assert.Equal(t, "ConflictError", e.Name())
	assert.Equal(t, "X0101000000TABCD", e.RequestID())
	assert.Equal(t, cause, e.TrackError())
}

func TestFromFieldsPrimaryBeatsAlias(t *testing.T) {
	e := From(Fields{"errno": 40401, "code": 40402, "status": 404, "status_code": 410, "message": "a", "error_msg": "b"})
	assert.Equal(t, 40401, e.Errno())
	assert.Equal(t, 404, e.Status())
	assert.Equal(t, "a", e.Message())
}

func TestFromDecodedJSON(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"errno": 40301, "status": 403, "track_error": "token expired"}`), &m))
	e := From(m)
	assert.Equal(t, 40301, e.Errno())
	assert.Equal(t, 403, e.Status())
	assert.Equal(t, "token expired", e.TrackError())

	e = From(json.Number("404"))
	assert.Equal(t, 40400, e.Errno())
}

func TestFromOptions(t *testing.T) {
	e := From(Options{Code: 42201, StatusCode: 422, ErrorMsg: "bad field"})
	assert.Equal(t, 42201, e.Errno())
	assert.Equal(t, 422, e.Status())
	assert.Equal(t, "bad field", e.Message())

	e = From(&Options{Message: "pointer"})
	assert.Equal(t, "pointer", e.Message())
}

func TestFromUnrecognizedWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	n := NewNormalizer(WithLogger(logger.NewFromZap(zap.New(core))))

	type odd struct{ A int }
	for _, v := range []any{nil, true, 1.5, odd{A: 1}, []int{1}} {
		e := n.From(v)
		assert.Equal(t, 40000, e.Errno())
		assert.Equal(t, 400, e.Status())
		assert.Equal(t, "UnknownError", e.Message())
		assert.Equal(t, v, e.TrackError())
	}
	assert.Equal(t, 5, logs.FilterMessageSnippet("unrecognized api error input").Len())
}

func TestClassify(t *testing.T) {
	ae := From(500)
	cause := errors.New("x")
	tests := []struct {
		in   any
		want Input
	}{
		{404, Number(404)},
		{int64(40100), Number(40100)},
		{uint8(200), Number(200)},
		{float64(404), Number(404)},
		{"m", Message("m")},
		{map[string]any{"a": 1}, Fields{"a": 1}},
		{Options{Errno: 1}, Options{Errno: 1}},
		{cause, Cause{Err: cause}},
		{ae, ae},
		{nil, Unrecognized{}},
		{3.25, Unrecognized{Value: 3.25}},
		{Message("typed"), Message("typed")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.in), "input %#v", tt.in)
	}
	var nilErr *APIError
	assert.Equal(t, Unrecognized{Value: nilErr}, Classify(nilErr))
}

func TestResolveDoesNotDefault(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, Options{Errno: 99901, Status: 999}, n.Resolve(Number(99901)))
	assert.Equal(t, Options{Status: 404, Errno: 40400, Message: "Not Found"}, n.Resolve(Number(404)))
	assert.Equal(t, Options{Message: "m"}, n.Resolve(Message("m")))
}

func TestRequestIDFreshPerConstruction(t *testing.T) {
	a, b := From(404), From(404)
	assert.Len(t, a.RequestID(), DefaultRequestIDLength)
	assert.NotEqual(t, a.RequestID(), b.RequestID())
}

func TestFromContextReusesRequestID(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "X1014120000TZZZZ")
	n := NewNormalizer()
	assert.Equal(t, "X1014120000TZZZZ", n.FromContext(ctx, 404).RequestID())
	assert.Equal(t, "explicit", n.FromContext(ctx, Fields{"request_id": "explicit"}).RequestID())
	assert.Len(t, n.FromContext(context.Background(), 404).RequestID(), DefaultRequestIDLength)

	existing := From(500)
	assert.Same(t, existing, n.FromContext(ctx, existing))
}

func TestCustomRegistriesAndDefaults(t *testing.T) {
	n := NewNormalizer(
		WithStatusRegistry(DefaultStatusRegistry().Extend(map[int]string{499: "Client Closed Request"})),
		WithErrnoRegistry(NewRegistry(map[int]string{40401: "User Not Found"})),
		WithDefaults(Defaults{Errno: 50000, Status: 500, RequestIDLength: 24}),
	)
	assert.Equal(t, "Client Closed Request", n.From(499).Message())
	assert.Equal(t, "User Not Found", n.From(40401).Message())
	assert.Equal(t, "Unauthorized", n.From(40100).Message())

	e := n.From(Fields{})
	assert.Equal(t, 50000, e.Errno())
	assert.Equal(t, 500, e.Status())
	assert.Equal(t, "UnknownError", e.Message())
	assert.Len(t, e.RequestID(), 24)
}

func TestErrorAndString(t *testing.T) {
	e := From(Fields{"errno": 40400, "status": 404, "message": "Source Not Found", "request_id": "RID"})
	assert.Equal(t, "[40400] APIError: Source Not Found", e.Error())
	assert.Equal(t, "[40400] APIError: Source Not Found - 404 - RID", e.String())

	e = From(Fields{"request_id": "RID", "trackError": errors.New("disk full")})
	assert.Equal(t, "[40000] APIError: UnknownError - 400 - RID\ndisk full", e.String())
	// fmt prefers Error over String
	assert.Equal(t, e.Error(), fmt.Sprint(e))
}

func TestValueView(t *testing.T) {
	cause := errors.New("boom")
	e := From(Fields{"errno": 50001, "status": 500, "message": "db", "trackError": cause})
	v := e.Value()
	assert.Equal(t, Value{
		Status:     500,
		Errno:      50001,
		Message:    "db",
		TrackError: cause,
		Name:       TypeName,
		RequestID:  e.RequestID(),
	}, v)
}

func TestResponseNeverLeaksCause(t *testing.T) {
	inputs := []any{
		404, 40100, "boom", errors.New("secret"),
		Fields{"trackError": "secret", "errno": 50000},
		nil,
	}
	for _, in := range inputs {
		e := From(in)
		raw, err := json.Marshal(e.Response())
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Len(t, got, 3)
		assert.Contains(t, got, "code")
		assert.Contains(t, got, "error")
		assert.Contains(t, got, "request_id")
		assert.NotContains(t, string(raw), "secret")
	}
}

func TestResponseDetailed(t *testing.T) {
	cause := errors.New("secret")
	e := From(cause)
	d := e.ResponseDetailed()
	assert.Equal(t, e.RequestID(), d.RequestID)
	assert.Equal(t, TypeName, d.Error.Name)
	assert.Equal(t, 40000, d.Error.Errno)
	assert.Equal(t, cause, d.Error.TrackError)

	assert.Nil(t, d.Scrubbed().Error.TrackError)
	assert.Equal(t, "secret", d.Stringified().Error.TrackError)
	// the original view is untouched
	assert.Equal(t, cause, d.Error.TrackError)

	raw, err := json.Marshal(From(404).ResponseDetailed())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"trackError":null`)
}

func TestMarshalJSONStringifiesCause(t *testing.T) {
	e := From(Fields{"errno": 40300, "status": 403, "trackError": errors.New("no scope"), "request_id": "RID"})
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":403,"errno":40300,"message":"UnknownError","trackError":"no scope","name":"APIError","request_id":"RID"}`, string(raw))
}

func TestAbort(t *testing.T) {
	e := Catch(func() { Abort(401) })
	require.NotNil(t, e)
	assert.Equal(t, 401, e.Status())
	assert.Equal(t, 40100, e.Errno())
	assert.Equal(t, "Unauthorized", e.Message())

	resp := e.Response()
	assert.Equal(t, 40100, resp.Code)
	assert.Equal(t, "Unauthorized", resp.Error)
	assert.Len(t, resp.RequestID, 16)
	assert.True(t, strings.HasPrefix(resp.RequestID, "X"))
}

func TestAbortSecondaryCause(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	e := Catch(func() { Abort(first, second) })
	assert.Equal(t, second, e.TrackError())

	e = Catch(func() { Abort(first, nil) })
	assert.Equal(t, first, e.TrackError())

	e = Catch(func() { Abort(400, nil, second) })
	assert.Equal(t, second, e.TrackError())

	existing := From(404)
	e = Catch(func() { Abort(existing) })
	assert.Same(t, existing, e)
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		Abort(40400)
		return nil
	}
	err := run()
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Source Not Found", ae.Message())

	assert.PanicsWithValue(t, "other", func() {
		var err error
		defer Recover(&err)
		panic("other")
	})
	assert.Nil(t, Catch(func() {}))
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	SetDefault(NewNormalizer(WithErrnoRegistry(NewRegistry(map[int]string{40100: "Please Log In"}))))
	assert.Equal(t, "Please Log In", From(40100).Message())

	SetDefault(nil)
	assert.Equal(t, "User Require Login", New(40100).Message())
}
