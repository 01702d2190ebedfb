// Package snsctx carries per-invocation flags through the context to the bus adapters.
package snsctx

import "context"

type ctxKey struct{}

var verboseKey ctxKey

// IsVerbose reports whether adapters should dump their wire traffic.
func IsVerbose(ctx context.Context) bool {
	verbose, _ := ctx.Value(verboseKey).(bool)
	return verbose
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, verboseKey, value)
}
