package utils

import (
	"errors"
	"net/http"

	"github.com/mapleleafu/games-service/responses"
)

// HandleSuccess writes an already encoded JSON body with the given status.
func HandleSuccess(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// HandleError checks the error type and sends an appropriate plain text
// response. Errors that are not API errors never leak their message.
func HandleError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMsg := "Internal Server Error"

	var apiErr responses.APIError
	if errors.As(err, &apiErr) {
		statusCode = apiErr.StatusCode()
		errorMsg = apiErr.Error()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	w.Write([]byte(errorMsg))
}
