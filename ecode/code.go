package ecode

import (
	"net/http"
	"sync"
)

// Business codes
const (
	OK                 = 0
	RequestErr         = -400
	ParamErr           = -401
	NotFound           = -404
	ServerErr          = -500
	BackendErr         = -502
	ServiceUnavailable = -503
	Deadline           = -504
)

var (
	mu       sync.RWMutex
	messages = map[int]string{
		OK:                 "ok",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		NotFound:           "Resource not found",
		ServerErr:          "Internal server error",
		BackendErr:         "Search backend error",
		ServiceUnavailable: "Search backend unavailable",
		Deadline:           "Deadline exceeded",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		NotFound:           http.StatusNotFound,
		ServerErr:          http.StatusInternalServerError,
		BackendErr:         http.StatusBadGateway,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
	}
)

// Register registers a custom code message, overriding any existing one
func Register(code int, message string) {
	mu.Lock()
	defer mu.Unlock()
	messages[code] = message
}

// Text returns the message for code
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status
func ToHTTPStatus(code int) int {
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
