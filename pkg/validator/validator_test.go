package validator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gvalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milan604/http-errors/pkg/apierr"
)

type createUser struct {
	Name  string `json:"name" validate:"required" binding:"required"`
	Email string `json:"email" validate:"required,email" binding:"required,email"`
	Age   int    `json:"age" validate:"gte=0,lte=150" binding:"gte=0,lte=150"`
}

func TestStructValid(t *testing.T) {
	vi := New()
	assert.Nil(t, vi.Struct(createUser{Name: "a", Email: "a@b.co", Age: 3}))
}

func TestStructValidationFailed(t *testing.T) {
	vi := New()
	e := vi.Struct(createUser{Email: "nope", Age: 200})
	require.NotNil(t, e)
	assert.Equal(t, ErrnoValidationFailed, e.Errno())
	assert.Equal(t, 422, e.Status())
	assert.Contains(t, e.Message(), "field name failed on 'required' validation")
	assert.Contains(t, e.Message(), "field email failed on 'email' validation")
	assert.Contains(t, e.Message(), "field age failed on 'lte' validation (param=150)")

	var ve gvalidator.ValidationErrors
	assert.ErrorAs(t, e, &ve)
}

func TestRegisterTagMessage(t *testing.T) {
	vi := New()
	vi.RegisterTagMessage("required", func(fe gvalidator.FieldError) string {
		return fe.Field() + " is mandatory"
	})
	e := vi.Struct(createUser{Email: "a@b.co"})
	require.NotNil(t, e)
	assert.Equal(t, "name is mandatory", e.Message())
}

func TestRegisterValidation(t *testing.T) {
	vi := New()
	require.NoError(t, vi.RegisterValidation("errno", func(fl gvalidator.FieldLevel) bool {
		return fl.Field().Int() >= 10000 && fl.Field().Int() <= 99999
	}))
	type entry struct {
		Errno int `json:"errno" validate:"errno"`
	}
	assert.Nil(t, vi.Struct(entry{Errno: 40100}))
	assert.NotNil(t, vi.Struct(entry{Errno: 401}))
}

func TestParseErrorShapes(t *testing.T) {
	vi := New()

	var syntaxErr *json.SyntaxError
	err := json.Unmarshal([]byte(`{`), &struct{}{})
	require.ErrorAs(t, err, &syntaxErr)
	e := vi.ParseError(err)
	assert.Equal(t, ErrnoInvalidRequest, e.Errno())
	assert.Equal(t, 400, e.Status())
	assert.Equal(t, "invalid JSON payload", e.Message())

	var target struct {
		Age int `json:"age"`
	}
	err = json.Unmarshal([]byte(`{"age":"x"}`), &target)
	e = vi.ParseError(err)
	assert.Equal(t, ErrnoInvalidRequest, e.Errno())
	assert.Equal(t, "invalid type for field age: expected int", e.Message())

	e = vi.ParseError(errors.New("weird"))
	assert.Equal(t, "invalid input: weird", e.Message())

	assert.Nil(t, vi.ParseError(nil))
}

func TestParseErrorUsesRegistryMessage(t *testing.T) {
	n := apierr.NewNormalizer(apierr.WithErrnoRegistry(apierr.NewRegistry(map[int]string{40005: "Bad Payload"})))
	vi := New(WithNormalizer(n))

	var target struct {
		Age int `json:"age"`
	}
	err := json.Unmarshal([]byte(`"x"`), &target)
	e := vi.ParseError(err)
	assert.Equal(t, "Bad Payload", e.Message())
}

func TestParseErrorContextRequestID(t *testing.T) {
	vi := New()
	ctx := apierr.ContextWithRequestID(context.Background(), "X1014000000TRID1")
	e := vi.ParseErrorContext(ctx, errors.New("bad"))
	assert.Equal(t, "X1014000000TRID1", e.RequestID())
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	vi := New()

	r := gin.New()
	r.POST("/users", func(c *gin.Context) {
		c.Request = c.Request.WithContext(apierr.ContextWithRequestID(c.Request.Context(), "X1014000000TBIND"))
		req, e := BindJSON[createUser](vi, c)
		if e != nil {
			c.JSON(e.Status(), e.Response())
			return
		}
		c.JSON(http.StatusCreated, req)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"a","email":"a@b.co"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"a"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp apierr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrnoValidationFailed, resp.Code)
	assert.Equal(t, "X1014000000TBIND", resp.RequestID)
	assert.Contains(t, resp.Error, "email")
}

func TestBindQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	vi := New()
	type page struct {
		Size int `form:"size" binding:"required,gte=1"`
	}

	r := gin.New()
	r.GET("/items", func(c *gin.Context) {
		if _, e := BindQuery[page](vi, c); e != nil {
			c.JSON(e.Status(), e.Response())
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?size=0", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?size=5", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
