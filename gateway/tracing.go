package gateway

import (
	"net/http"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// NewTracedHTTPClient returns an *http.Client whose calls are recorded as
// X-Ray subsegments of the inbound request's segment.
func NewTracedHTTPClient(timeout time.Duration) *http.Client {
	return xray.Client(&http.Client{Timeout: timeout})
}
