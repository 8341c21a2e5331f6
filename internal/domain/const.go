package domain

const (
	// RequesterIdCtxKey carries the authenticated user id through the
	// request context once the bearer token has been verified.
	RequesterIdCtxKey = "stashit-requesterId"
)
