package pipeline

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/hktitof/newsdigest"
)

// networkMarkers are matched against error text for failures that reach us
// only as strings, such as browser navigation errors.
var networkMarkers = []string{
	"connection reset",
	"econnreset",
	"timeout",
	"timed out",
	"deadline exceeded",
	"aborted",
	"eof",
}

// Classify maps an acquisition failure to a placeholder. It reports false
// for errors that must reach the caller: invalid input, refused targets,
// missing configuration, insufficient content and cancellation.
func Classify(err error) (newsdigest.SummaryResult, bool) {
	if Terminal(err) {
		return newsdigest.SummaryResult{}, false
	}
	if newsdigest.ErrorStatus(err) == http.StatusForbidden {
		return newsdigest.AccessDeniedPlaceholder, true
	}
	if IsNetworkError(err) {
		return newsdigest.FetchErrorPlaceholder, true
	}
	return newsdigest.GenericErrorPlaceholder, true
}

// Terminal reports whether err is never replaced by a placeholder.
func Terminal(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch newsdigest.ErrorCode(err) {
	case newsdigest.EINVALID, newsdigest.EFORBIDDEN, newsdigest.ECONFIG, newsdigest.EINSUFFICIENT:
		return true
	}
	return false
}

// IsNetworkError reports whether err looks like a connection reset,
// timeout, aborted request or truncated response.
func IsNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range networkMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
