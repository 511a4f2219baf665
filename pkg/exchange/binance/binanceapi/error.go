package binanceapi

import (
	"fmt"
	"regexp"

	"github.com/adshao/go-binance/v2/common"
	"github.com/c9s/requestgen"
)

var htmlTagPattern = regexp.MustCompile("<[/]?[a-zA-Z-]+.*?>")

// APIError is returned when the API responds with a non-2xx status code.
//
// sample:
//
//	{"code":-1021,"msg":"Timestamp for this request is outside of the recvWindow."}
type APIError struct {
	common.APIError

	StatusCode int
	Method     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %d %s", e.Method, e.URL, e.StatusCode, e.Code, e.Message)
}

// IsClientError reports whether the request was rejected because of its content,
// retrying the same request won't succeed.
func (e *APIError) IsClientError() bool {
	// 429 and 418 are rate limit rejections
	if e.StatusCode == 429 || e.StatusCode == 418 {
		return false
	}

	return e.StatusCode >= 400 && e.StatusCode < 500
}

// ToAPIError converts the error response to *APIError.
// Non-JSON bodies (gateway pages) are kept as the message with the html tags stripped.
func ToAPIError(response *requestgen.Response) *APIError {
	apiErr := &APIError{StatusCode: response.StatusCode}
	if response.Request != nil {
		apiErr.Method = response.Request.Method
		apiErr.URL = response.Request.URL.Path
	}

	if err := response.DecodeJSON(&apiErr.APIError); err != nil || (apiErr.Code == 0 && apiErr.Message == "") {
		apiErr.Message = htmlTagPattern.ReplaceAllLiteralString(string(response.Body), "")
	}

	return apiErr
}
