package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

var encodeFailure = []byte(`{"error":"failed to encode response"}`)

// WriteJSON encodes payload before anything is written, so a payload that
// cannot be encoded turns into a 500 rather than a truncated success.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("failed to encode response", zap.Int("status", status), zap.Error(err))
		status, body = http.StatusInternalServerError, encodeFailure
	}
	body = append(body, '\n')

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zap.L().Debug("client went away before response was written", zap.Error(err))
	}
}

// WriteError writes {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
