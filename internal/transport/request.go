package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/riftsync/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// DecodeJSON reads and closes resp.Body and decodes exactly one JSON value.
func DecodeJSON(resp *http.Response) (any, error) {
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.WrapParse("json", endpointOf(resp), err)
	}
	if dec.More() {
		return nil, errors.NewParseError("json", endpointOf(resp), "trailing data after JSON value", nil)
	}
	return v, nil
}

// checkStatus turns a non-2xx response into an APIError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	endpoint := endpointOf(resp)
	return &errors.APIError{
		Source:     sourceOf(endpoint),
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Message:    fmt.Sprintf("%s: %s", resp.Status, bytes.TrimSpace(snippet)),
	}
}

func endpointOf(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.String()
}
