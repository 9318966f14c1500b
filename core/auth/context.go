package auth

import "context"

// SessionCookieName is the cookie the signed session token travels in.
const SessionCookieName = "docudesk_session"

type contextKey string

// SessionContextKey carries the verified *SessionClaims for the request.
const SessionContextKey contextKey = "docudesk.session"

func WithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, SessionContextKey, claims)
}

// ClaimsFromContext returns nil when the request carries no verified session.
func ClaimsFromContext(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(SessionContextKey).(*SessionClaims)
	return claims
}
