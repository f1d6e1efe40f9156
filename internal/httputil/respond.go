package httputil

import (
	"encoding/json"
	"net/http"
	"os"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

// OKWithMessage writes a success envelope carrying both a message and a
// payload. Used for soft warnings (e.g. a recomputed derived value).
func OKWithMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with the given message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Internal writes a 500 envelope. The underlying error text is only exposed
// outside production.
func Internal(w http.ResponseWriter, err error) {
	msg := "Internal server error"
	if os.Getenv("APP_ENV") != "production" && err != nil {
		msg = msg + ": " + err.Error()
	}
	write(w, http.StatusInternalServerError, Envelope{Success: false, Message: msg})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
