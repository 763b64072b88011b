package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestValidationErrorPayload(t *testing.T) {
	c, w := newContext()
	Error(c, apperrors.Validation(
		apperrors.FieldError{FieldName: "name", Message: "Required field"},
		apperrors.FieldError{FieldName: "price", Message: "Must be positive"},
	))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{
		"code": 42200,
		"message": "Validation error",
		"data": {"errors": [
			{"field_name": "name", "message": "Required field"},
			{"field_name": "price", "message": "Must be positive"}
		]}
	}`, w.Body.String())
}

func TestErrorStatusFromCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
		body string
	}{
		{apperrors.NotFound("Id not found %d", 9), http.StatusNotFound, `{"code":40400,"message":"Id not found 9"}`},
		{apperrors.ErrForbidden, http.StatusForbidden, `{"code":40300,"message":"` + apperrors.ErrForbidden.Message + `"}`},
		{apperrors.ErrInvalidOrderStatus, http.StatusBadRequest, `{"code":40002,"message":"` + apperrors.ErrInvalidOrderStatus.Message + `"}`},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, `{"code":50000,"message":"Internal server error"}`},
	}
	for _, tc := range cases {
		c, w := newContext()
		Error(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	c, w := newContext()
	Error(c, apperrors.Wrap(errors.New("password=secret"), "Find user failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestSuccessAndCreated(t *testing.T) {
	c, w := newContext()
	Success(c, gin.H{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"id":1}}`, w.Body.String())

	c, w = newContext()
	Created(c, gin.H{"id": 2})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"id":2}}`, w.Body.String())
}

func TestPagePayload(t *testing.T) {
	c, w := newContext()
	Page(c, pagination.NewPage([]string{"c", "d"}, pagination.PageRequest{Page: 1, Size: 2}, 5))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"code": 0,
		"message": "success",
		"data": {
			"content": ["c", "d"],
			"page_number": 1,
			"page_size": 2,
			"total_elements": 5,
			"total_pages": 3,
			"first": false,
			"last": false,
			"empty": false
		}
	}`, w.Body.String())
}

func TestNoContent(t *testing.T) {
	c, w := newContext()
	NoContent(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
