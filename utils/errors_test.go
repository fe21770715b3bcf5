package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validationf("icon is required"), http.StatusBadRequest},
		{NotFoundf("project %s", "abc"), http.StatusNotFound},
		{fmt.Errorf("upload: %w", ErrCapacity), http.StatusRequestEntityTooLarge},
		{fmt.Errorf("derive: %w", ErrPipeline), http.StatusUnprocessableEntity},
		{ErrIntegrity, http.StatusInternalServerError},
		{ErrExternalService, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := StatusFor(tc.err)
		assert.Equal(t, tc.want, status, tc.err.Error())
	}
}

func TestBatchErrorMatchesMemberKinds(t *testing.T) {
	err := &BatchError{Failures: []*ItemError{
		{Item: "a.png", Err: fmt.Errorf("%w: too big", ErrCapacity)},
		{Item: "b.png", Err: fmt.Errorf("%w: corrupt", ErrPipeline)},
	}}

	assert.ErrorIs(t, err, ErrCapacity)
	assert.ErrorIs(t, err, ErrPipeline)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "a.png")
	assert.Contains(t, err.Error(), "2 item(s) failed")
}

func TestRespondWithAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondWithAppError(c, &BatchError{Failures: []*ItemError{{Item: "big.jpg", Err: ErrCapacity}}})

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "capacity_exceeded", body["error_code"])
	details := body["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "big.jpg", details[0].(map[string]interface{})["item"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	RespondWithAppError(c, errors.New("mongo: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
