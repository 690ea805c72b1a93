// Package metrics holds the metric shapes emitted by the console.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/panai/console/internal/observability/errors"
	"github.com/panai/console/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// APICall describes one outbound request to the PanAI API.
type APICall struct {
	Endpoint string
	Method   string
	// Status is 0 when no response was received.
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall records a counter and a latency timing for an API call.
func EmitAPICall(sink statsd.Sink, in APICall) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"endpoint":     in.Endpoint,
		"method":       in.Method,
		"status_class": StatusClass(in.Status),
		"result":       ResultSuccess,
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.latency", in.Duration, tags)
	}
}

// LeadSubmission describes a sales form submission outcome.
type LeadSubmission struct {
	Result string
	// Notified is true when the Slack notification went out.
	Notified bool
}

// EmitLeadSubmission counts sales form submissions.
func EmitLeadSubmission(sink statsd.Sink, in LeadSubmission) {
	if sink == nil {
		return
	}
	sink.Count("leads.submitted", 1, map[string]string{
		"result":   in.Result,
		"notified": strconv.FormatBool(in.Notified),
	})
}

// StatusClass buckets an HTTP status into "2xx".."5xx", or "none" without a response.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}
