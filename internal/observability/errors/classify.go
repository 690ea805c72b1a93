// Package errors turns errors into short, stable class names for metric tags and logs.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"
)

// Well-known classes.
const (
	ClassTimeout  = "timeout"
	ClassCanceled = "canceled"
	ClassNetwork  = "network"
	ClassStatus   = "http_status"
)

// Classify returns a normalized error class. Context and network failures map to
// fixed names, errors exposing an HTTP status to ClassStatus, and anything else to
// the snake_cased type name of the innermost error.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case goerrors.Is(err, context.Canceled):
		return ClassCanceled
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}

	var status interface{ HTTPStatus() int }
	if goerrors.As(err, &status) {
		return ClassStatus
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}
	return typeName(err)
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
