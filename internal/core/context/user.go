// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains the authenticated dashboard user.
type UserContext struct {
	UserID   string
	Username string
	Email    string
	IsStaff  bool

	// AccessToken is the raw bearer token, forwarded to the
	// reconciliation backend on behalf of the user.
	AccessToken string
}

type userContextKey struct{}

type langContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// WithLang stores the negotiated UI language ("fr", "en", "ar").
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langContextKey{}, lang)
}

// GetLang returns the UI language from context or empty string.
func GetLang(ctx context.Context) string {
	if v, ok := ctx.Value(langContextKey{}).(string); ok {
		return v
	}
	return ""
}
