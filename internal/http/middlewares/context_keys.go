package middlewares

const (
	ctxUserIDKey   = "auth.userID"
	ctxEmailKey    = "auth.email"
	ctxUsernameKey = "auth.username"

	CtxRequestID = "request_id"
)
