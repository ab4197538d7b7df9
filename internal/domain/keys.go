package domain

import "context"

type CtxKey string

const (
	// KeyRequestID is set on both the gin context and the request context
	KeyRequestID CtxKey = "RequestID"
	KeyClientIP  CtxKey = "ClientIP"
)

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}

func ClientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(KeyClientIP).(string)
	return ip
}
