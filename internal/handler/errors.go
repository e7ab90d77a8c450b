package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidUUIDParam  = "Invalid %s parameter"

	ErrMsgUnlockFailed          = "Failed to unlock recipe"
	ErrMsgGetHistoryFailed      = "Failed to retrieve unlock history"
	ErrMsgRecordEventFailed     = "Failed to record interaction"
	ErrMsgGetFavoritesFailed    = "Failed to retrieve favorites"
	ErrMsgRankFailed            = "Failed to rank recipes"
	ErrMsgEntitlementCheckFail  = "Failed to check entitlement"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidPage           = "Invalid page parameter"
	ErrMsgTooManyCandidates     = "Too many candidate recipes"
)
