package httptesting

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func BuildResponse(code int, payload []byte) *http.Response {
	return &http.Response{
		StatusCode:    code,
		Status:        http.StatusText(code),
		Header:        http.Header{},
		Body:          io.NopCloser(bytes.NewReader(payload)),
		ContentLength: int64(len(payload)),
	}
}

func BuildResponseString(code int, payload string) *http.Response {
	resp := BuildResponse(code, []byte(payload))
	if strings.HasPrefix(strings.TrimSpace(payload), "{") || strings.HasPrefix(strings.TrimSpace(payload), "[") {
		SetHeader(resp, "Content-Type", "application/json")
	}

	return resp
}

func BuildResponseJson(code int, payload interface{}) *http.Response {
	data, err := json.Marshal(payload)
	if err != nil {
		return BuildResponseString(http.StatusInternalServerError, `{"error": "httptesting.BuildResponseJson error"}`)
	}

	resp := BuildResponse(code, data)
	SetHeader(resp, "Content-Type", "application/json")
	return resp
}

func SetHeader(resp *http.Response, name string, value string) *http.Response {
	if resp.Header == nil {
		resp.Header = http.Header{}
	}

	resp.Header.Set(name, value)
	return resp
}
