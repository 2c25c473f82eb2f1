package scenario

// error.go
// failure code definitions
// failure classification
// error message construction helpers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/isucon/isucandar"
	"github.com/isucon/isucandar/failure"
)

func CheckError(err error) (critical bool, timeout bool, deduction bool) {
	critical = false  // stop the bench immediately
	timeout = false   // request timeout (some amount is tolerated)
	deduction = false // counted against the error budget

	if isCritical(err) {
		critical = true
		return
	}

	if failure.IsCode(err, isucandar.ErrLoad) {
		if isTimeout(err) {
			timeout = true
		} else if isDeduction(err) {
			deduction = true
		}
	}

	return
}

var (
	ErrCritical failure.StringCode = "critical"
)

func isCritical(err error) bool {
	return failure.IsCode(err, ErrCritical) ||
		failure.IsCode(err, isucandar.ErrPanic)
}

var (
	ErrInvalidStatusCode failure.StringCode = "status code"
	ErrInvalidJSON       failure.StringCode = "json"
	ErrMissingCallID     failure.StringCode = "missing call id" // 2xx creation without a recognizable identifier
	ErrBadResponse       failure.StringCode = "bad-response"
	ErrHTTP              failure.StringCode = "http" // transport-level errors, timeouts included
)

func isDeduction(err error) bool {
	return failure.IsCode(err, ErrInvalidStatusCode) ||
		failure.IsCode(err, ErrInvalidJSON) ||
		failure.IsCode(err, ErrMissingCallID) ||
		failure.IsCode(err, ErrBadResponse) ||
		(!isTimeout(err) && failure.IsCode(err, ErrHTTP))
}

func isTimeout(err error) bool {
	var nerr net.Error
	if failure.As(err, &nerr) {
		if nerr.Timeout() || nerr.Temporary() {
			return true
		}
	}
	if failure.Is(err, context.DeadlineExceeded) ||
		failure.Is(err, context.Canceled) {
		return true
	}
	return failure.IsCode(err, failure.TimeoutErrorCode)
}

// body snippets in error messages are capped at this many bytes
const errorBodyLimit = 200

func truncateBody(body []byte) string {
	if len(body) > errorBodyLimit {
		return string(body[:errorBodyLimit]) + "..."
	}
	return string(body)
}

func errorInvalidStatusCodes(res *http.Response, body []byte, expected []int) error {
	expectedStr := ""
	for _, v := range expected {
		expectedStr += strconv.Itoa(v) + ","
	}
	expectedStr = expectedStr[:len(expectedStr)-1]
	return failure.NewError(ErrInvalidStatusCode,
		errorFormatWithResponse(res, "unexpected HTTP status code (expected: %s, body: %s)", expectedStr, truncateBody(body)))
}

func errorInvalidJSON(res *http.Response, body []byte) error {
	return failure.NewError(ErrInvalidJSON,
		errorFormatWithResponse(res, "response is not valid JSON (body: %s)", truncateBody(body)))
}

func errorMissingCallID(res *http.Response, body []byte) error {
	return failure.NewError(ErrMissingCallID,
		errorFormatWithResponse(res, "creation response carries no call id (body: %s)", truncateBody(body)))
}

func errorBadResponse(res *http.Response, message string, args ...interface{}) error {
	return failure.NewError(ErrBadResponse, errorFormatWithResponse(res, message, args...))
}

func errorFormatWithResponse(res *http.Response, message string, args ...interface{}) error {
	args = append(args, res.StatusCode, res.Request.Method, res.Request.URL.RequestURI())
	return fmt.Errorf(message+": %d (%s: %s)", args...)
}
