package directory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequestError is a non-2xx answer from the directory service with the
// error message extracted from the response body when one is present.
type RequestError struct {
	StatusCode int
	Message    string
}

func (err *RequestError) Error() string {
	return err.Message
}

func decodeRequestError(statusCode int, status string, payload []byte) error {
	message := extractErrorMessage(payload)
	if message == "" {
		message = fmt.Sprintf("HTTP %s", strings.TrimSpace(status))
	}
	return &RequestError{StatusCode: statusCode, Message: message}
}

// extractErrorMessage handles both error body shapes the service emits:
// {"error": {"type": ..., "message": ...}} and {"error": "..."}.
func extractErrorMessage(payload []byte) string {
	var structured struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &structured); err == nil && structured.Error.Message != "" {
		return structured.Error.Message
	}

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}
	return ""
}
