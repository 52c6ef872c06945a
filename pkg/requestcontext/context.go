// Package requestcontext carries caller metadata through a context without
// tying the registry client to net/http. The metadata middleware writes these
// values; the registry client reads the client address from them.
package requestcontext

import "context"

type key int

const (
	clientIPKey key = iota
	userAgentKey
	requestIDKey
)

func stringValue(ctx context.Context, k key) string {
	v, _ := ctx.Value(k).(string)
	return v
}

// ClientIP returns the caller's address, or "" when none was recorded.
func ClientIP(ctx context.Context) string {
	return stringValue(ctx, clientIPKey)
}

// ClientIPOr is ClientIP with a fallback for an unset or empty address.
func ClientIPOr(ctx context.Context, fallback string) string {
	if ip := ClientIP(ctx); ip != "" {
		return ip
	}
	return fallback
}

func WithClientIP(ctx context.Context, clientIP string) context.Context {
	return context.WithValue(ctx, clientIPKey, clientIP)
}

func UserAgent(ctx context.Context) string {
	return stringValue(ctx, userAgentKey)
}

// WithClientMetadata records both the address and the user agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return context.WithValue(WithClientIP(ctx, clientIP), userAgentKey, userAgent)
}

func RequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
