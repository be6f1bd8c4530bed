package cache

// NotesListKey is the cache key for a user's rendered note list. The version
// segment lets us invalidate the whole keyspace by bumping it.
func NotesListKey(userID string) string {
	return "notes:list:v1:user=" + userID
}
