package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain
// consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Path and query parameter error messages
	ErrMsgMissingPathParam = "Missing %s path parameter"
	ErrMsgInvalidSince     = "Invalid since parameter, expected RFC3339 timestamp"

	// Cost resolution error messages
	ErrMsgResolveCostFailed = "Failed to resolve cost"

	// Price error messages
	ErrMsgGetPriceFailed   = "Failed to get price"
	ErrMsgGetHistoryFailed = "Failed to get price history"

	// Catalog error messages
	ErrMsgGetRecipeFailed = "Failed to get recipe"

	// Sync error messages
	ErrMsgSyncPricesFailed  = "Failed to sync prices"
	ErrMsgSyncRecipesFailed = "Failed to sync recipes"

	// Export error messages
	ErrMsgExportFailed = "Failed to export shopping list"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
)
