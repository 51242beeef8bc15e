package measurements

import (
	"context"
	"errors"
	"os"

	"go.opentelemetry.io/otel/attribute"
)

var (
	AttrStatusSuccess  = attribute.String("status", "success")
	AttrStatusError    = attribute.String("status", "error-other")
	AttrStatusCanceled = attribute.String("status", "error-canceled")
	AttrStatusTimeout  = attribute.String("status", "error-timeout")
	AttrStatusRemote   = attribute.String("status", "error-remote")
)

// RemoteError marks errors reported by a remote endpoint, as opposed to
// failures to reach it.
type RemoteError struct{ Message string }

func (e *RemoteError) Error() string { return e.Message }

// Status classifies the outcome of an operation for use as a metric
// attribute.
func Status(ctx context.Context, err error) attribute.KeyValue {
	var remote *RemoteError
	switch cErr := ctx.Err(); {
	case err == nil:
		return AttrStatusSuccess
	case errors.As(err, &remote):
		return AttrStatusRemote
	case os.IsTimeout(err),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(cErr, context.DeadlineExceeded):
		return AttrStatusTimeout
	case errors.Is(err, context.Canceled),
		errors.Is(cErr, context.Canceled):
		return AttrStatusCanceled
	default:
		return AttrStatusError
	}
}

// Must panics if err is non-nil, otherwise returns v. It is meant for
// registering instruments at package initialisation.
func Must[V any](v V, err error) V {
	if err != nil {
		panic(err)
	}
	return v
}
