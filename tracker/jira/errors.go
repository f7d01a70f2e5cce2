package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/teranos/changeset/errors"
)

// APIError is a non-2xx Jira response with its error body folded in
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("jira %s %s: status %d", e.Method, e.Path, e.StatusCode)
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	return msg
}

// errorBody is Jira's standard error payload
type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// newAPIError builds an APIError marked with the sentinel matching status
func newAPIError(method, path string, status int, body []byte) error {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Messages = append(apiErr.Messages, eb.ErrorMessages...)
		fields := make([]string, 0, len(eb.Errors))
		for field := range eb.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			apiErr.Messages = append(apiErr.Messages, field+": "+eb.Errors[field])
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		apiErr.Messages = []string{text}
	}

	switch {
	case status == http.StatusNotFound:
		return errors.Mark(apiErr, errors.ErrNotFound)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.WithHint(errors.Mark(apiErr, errors.ErrUnauthorized),
			"check jira.user and CHANGESET_JIRA_PASSWORD")
	case status == http.StatusBadRequest:
		return errors.Mark(apiErr, errors.ErrInvalidRequest)
	case status == http.StatusTooManyRequests || status >= 500:
		return errors.Mark(apiErr, errors.ErrServiceUnavailable)
	default:
		return apiErr
	}
}
