package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mapleleafu/games-service/responses"
)

func TestHandleErrorUsesAPIErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("create: %w", responses.ConflictError{Msg: "game with id 1 already exists"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "game with id 1 already exists", rec.Body.String())
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
}

func TestHandleSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleSuccess(rec, http.StatusCreated, []byte(`"Ok!"`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `"Ok!"`, rec.Body.String())
}
