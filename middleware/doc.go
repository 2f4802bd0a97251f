// Package middleware adapts token verification to net/http.
//
// [RequireToken] reads a bearer token from the Authorization header, decodes it
// with the engine and stores the resulting claims in the request context, where
// handlers read them with goToken.TokenDataFromContext. [RequireClaims] also
// demands that named claims are present.
//
// Rejections are written as plain-text 401 or 403 responses and logged at debug
// level through the request's zerolog context logger, if any. The response never
// carries the decode error.
package middleware
