package functions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "jan-agent-gateway/1.0"

// NewHTTPClient builds the resty client shared by every call of one executor.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return client
}

// APIError is a non-2xx reply from an external service.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Service, e.StatusCode, e.Message)
}

// Check folds transport failures and non-2xx replies into one error.
func Check(service string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	if resp.IsError() {
		return &APIError{
			Service:    service,
			StatusCode: resp.StatusCode(),
			Message:    apiMessage(resp.StatusCode(), resp.Body()),
		}
	}
	return nil
}

func apiMessage(status int, body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if msg := errorField(payload.Error); msg != "" {
			return msg
		}
		if len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
			return payload.Errors[0].Message
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

func errorField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}
