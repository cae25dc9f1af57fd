package repo

import "strings"

// Key layout, under the adapter namespace:
//
//	user:<id>                      auth record
//	user:email:<email>             email -> user id index
//	user:<id>:<entity>             entity document
//	user:<id>:backup:<timestamp>   per-user snapshot

func userKey(id string) string {
	return "user:" + id
}

func emailKey(email string) string {
	return "user:email:" + strings.ToLower(strings.TrimSpace(email))
}

// EntityKey returns the storage key for one of a user's entity documents.
func EntityKey(userID, entity string) string {
	return "user:" + userID + ":" + entity
}

func userScope(userID string) string {
	return "user:" + userID + ":"
}

func userBackupPrefix(userID string) string {
	return "user:" + userID + ":backup:"
}
