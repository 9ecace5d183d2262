// Package cmd implements the zlang CLI commands.
package cmd

import (
	"context"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

// cacheDirKey is used to store the cache directory path in
// [context.Context].
type cacheDirKey struct{}

// WithCacheDir returns a new context.Context carrying the cache directory
// used for transient files such as the REPL history database.
func WithCacheDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, cacheDirKey{}, dir)
}

// cacheDirFrom retrieves the cache directory stored by WithCacheDir.
// Returns "" if none was stored.
func cacheDirFrom(ctx context.Context) string {
	dir, _ := ctx.Value(cacheDirKey{}).(string)

	return dir
}
