package utils

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// PrintLogInfo logs a per-request outcome at a level matching the status code.
func PrintLogInfo(email *string, statusCode int, functionName string, err error) {
	user := "anonymous"
	if email != nil {
		user = *email
	}

	evt := log.Info()
	switch {
	case statusCode >= http.StatusInternalServerError:
		evt = log.Error()
	case statusCode >= http.StatusBadRequest:
		evt = log.Warn()
	}

	evt = evt.Str("user", user).Int("status", statusCode).Str("function", functionName)
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Send()
}
