package goGate

import "context"

type currentURLContextKey struct{}

// WithCurrentURL attaches the caller's current URL to ctx. The Engine uses it
// as the return target when building the SSO redirect on bootstrap failure and
// on logout; without it the configured DefaultReturnURL is used.
func WithCurrentURL(ctx context.Context, rawURL string) context.Context {
	return context.WithValue(ctx, currentURLContextKey{}, rawURL)
}

func currentURLFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	rawURL, _ := ctx.Value(currentURLContextKey{}).(string)
	return rawURL
}
