package console

import (
	"context"

	"github.com/gophertribe/sensorpack/spkctx"
)

// SetVerbose and IsVerbose forward to spkctx so commands only import console.

func SetVerbose(parent context.Context, value bool) context.Context {
	return spkctx.SetVerbose(parent, value)
}

func IsVerbose(ctx context.Context) bool {
	return spkctx.IsVerbose(ctx)
}
