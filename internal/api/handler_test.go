package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/fault"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performWithError(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	writeError(c, err)
	return w
}

func TestWriteErrorValidation(t *testing.T) {
	ve := (&fault.ValidationError{}).Add("price", "must be greater than 0")
	w := performWithError(ve)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "price")
	assert.Contains(t, w.Body.String(), "must be greater than 0")
}

func TestWriteErrorConflict(t *testing.T) {
	w := performWithError(fault.Conflict("user", "username or email already exists"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "username or email already exists")
}

func TestWriteErrorNotFound(t *testing.T) {
	w := performWithError(fault.NotFound("product", 42))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "product not found")
}

func TestWriteErrorWrappedFault(t *testing.T) {
	w := performWithError(fmt.Errorf("update user: %w", fault.NotFound("user", 7)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteErrorInternalHidesDetail(t *testing.T) {
	w := performWithError(fmt.Errorf("pq: connection refused to 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestIDParam(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := idParam(c)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok = idParam(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
