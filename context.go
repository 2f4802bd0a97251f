package goToken

import "context"

type tokenDataContextKey struct{}

// WithTokenData attaches verified claims to ctx. The middleware package uses it
// to hand decoded tokens to downstream handlers.
func WithTokenData(ctx context.Context, data *TokenData) context.Context {
	return context.WithValue(ctx, tokenDataContextKey{}, data)
}

// TokenDataFromContext returns the claims attached by WithTokenData.
func TokenDataFromContext(ctx context.Context) (*TokenData, bool) {
	if ctx == nil {
		return nil, false
	}

	data, ok := ctx.Value(tokenDataContextKey{}).(*TokenData)
	return data, ok && data != nil
}
