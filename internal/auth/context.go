package auth

import "net/http"

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyUserID is the key for the authenticated user ID in the context
	ContextKeyUserID ContextKey = "userID"
	// ContextKeyIsAdmin is the key for the superadmin flag in the context
	ContextKeyIsAdmin ContextKey = "isAdmin"
	// ContextKeySession is the key for the session in the context
	ContextKeySession ContextKey = "session"
)

// GetUserID retrieves the authenticated user ID from the request context.
func GetUserID(r *http.Request) int64 {
	if id, ok := r.Context().Value(ContextKeyUserID).(int64); ok {
		return id
	}
	return 0
}

// IsAdmin checks if the authenticated user is the superadmin.
func IsAdmin(r *http.Request) bool {
	if isAdmin, ok := r.Context().Value(ContextKeyIsAdmin).(bool); ok {
		return isAdmin
	}
	return false
}
