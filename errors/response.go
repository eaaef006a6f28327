package errors

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// DecodeServiceError builds a ServiceError from a non-2xx response.
// Bodies that are not a JSON error document yield ServiceCodeBadResponse.
func DecodeServiceError(statusCode int, requestID string, body []byte) *ServiceError {
	se := &ServiceError{}
	if err := json.Unmarshal(body, se); err != nil || se.Code == "" {
		msg := string(bytes.TrimSpace(body))
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", statusCode)
		}
		return NewServiceError(statusCode, ServiceCodeBadResponse, msg, requestID)
	}
	se.StatusCode = statusCode
	se.RequestID = requestID
	return se
}
