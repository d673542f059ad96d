package rawhttp

import "context"

type ctxKey struct{}

// WithRequest stores the framed request in ctx.
func WithRequest(ctx context.Context, req *RawRequest) context.Context {
	return context.WithValue(ctx, ctxKey{}, req)
}

// FromContext returns the framed request stored by WithRequest.
func FromContext(ctx context.Context) (*RawRequest, bool) {
	req, ok := ctx.Value(ctxKey{}).(*RawRequest)
	return req, ok && req != nil
}
