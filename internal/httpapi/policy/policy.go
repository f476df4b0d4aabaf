// Package policy holds the authorization rules as pure functions so they can
// be unit-tested without a router or database. Middleware and handlers call
// these and translate a deny into 401 or 403.
package policy

import (
	"net/http"

	"reviewhub/internal/httpapi/models"
)

// SafeMethod reports whether the HTTP method has no side effects.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// ReadOnlyOrAuthenticated is the collection-level check for reviews and
// comments: safe methods are open, everything else needs a logged-in user.
func ReadOnlyOrAuthenticated(method string, authenticated bool) bool {
	return SafeMethod(method) || authenticated
}

// CanModifyObject is the object-level check for reviews and comments.
// The author may edit their own record; moderators and admins may edit any.
func CanModifyObject(role string, requesterID, ownerID int64, method string) bool {
	if SafeMethod(method) {
		return true
	}
	if requesterID == ownerID {
		return true
	}
	return role == models.RoleModerator || role == models.RoleAdmin
}

// AdminOnly gates user management.
func AdminOnly(authenticated bool, role string) bool {
	return authenticated && role == models.RoleAdmin
}

// ReadOnlyOrAdmin gates categories, genres and titles: anyone may read,
// only an authenticated admin may mutate.
func ReadOnlyOrAdmin(method string, authenticated bool, role string) bool {
	return SafeMethod(method) || AdminOnly(authenticated, role)
}
