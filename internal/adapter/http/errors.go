package adapthttp

// Client-facing error bodies. They never carry internal error details; tests
// reference the same constants.
const (
	ErrMsgInternal = "Internal server error"

	ErrMsgInvalidQuantity = "Invalid quantity"
	ErrMsgItemNotFound    = "Item not found"
	ErrMsgNotEnoughStock  = "Not enough inventory"
	ErrMsgLineNotFound    = "Not found"
	ErrMsgCartItemMissing = "Cart item not found"

	ErrMsgMissingCredentials = "Missing username or password"
	ErrMsgInvalidCredentials = "Invalid username or password"
	ErrMsgUsernameTaken      = "Username already exists"
	ErrMsgReservedUsername   = "Username is reserved"

	ErrMsgSSODisabled        = "SSO disabled"
	ErrMsgInvalidState       = "Invalid state"
	ErrMsgSSOAccountConflict = "Account exists and cannot be linked to SSO"
)
