// Package domain contains core domain types for the fittrack application.
package domain

import "strings"

// OfflineUserID is the fixed sentinel identity used for guest sessions.
const OfflineUserID = "offline-user"

// User represents an authenticated account or the offline guest.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username"`
	Offline  bool   `json:"offline,omitempty"`
}

// NewUser builds a user, defaulting the username to the email local part.
func NewUser(id, email, username string) *User {
	if username == "" {
		if at := strings.Index(email, "@"); at > 0 {
			username = email[:at]
		} else {
			username = "User"
		}
	}
	return &User{ID: id, Email: email, Username: username}
}

// OfflineUser returns the guest identity used when no remote session exists.
func OfflineUser() *User {
	return &User{ID: OfflineUserID, Username: "Offline User", Offline: true}
}
