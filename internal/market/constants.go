package market

import "time"

// Client defaults
const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetryCount = 3
	DefaultLocale     = "en_US"
	NamespaceDynamic  = "dynamic-us"
	NamespaceStatic   = "static-us"
	ItemCacheSize     = 4096
	tokenExpirySkew   = time.Minute
)

// Error message constants
const (
	ErrMsgTokenFetch      = "failed to fetch access token"
	ErrMsgTokenStatus     = "token endpoint returned status"
	ErrMsgRequestFailed   = "market API request failed"
	ErrMsgUnexpectedState = "market API returned status"
)
