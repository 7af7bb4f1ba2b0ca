package requestdata

import (
	"context"
)

type contextKey struct{}

var requestDataKey contextKey

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user id, zero when the request carries no
// authenticated principal.
func UserID(ctx context.Context) int64 {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return 0
}

type RequestData struct {
	TokenString string
	RequestID   string
	UserID      int64
}
