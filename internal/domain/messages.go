package domain

// Fixed catalog of user-facing messages. Handlers and services must not
// invent ad-hoc strings; ambiguous wording (e.g. identical bad-email and
// bad-password responses) is deliberate.
const (
	MsgServerError            = "Internal Server Error"
	MsgForbidden              = "Forbidden"
	MsgUnauthorized           = "Unauthorized"
	MsgInvalidTokenType       = "Invalid token type"
	MsgInvalidToken           = "Invalid token"
	MsgUserNotFound           = "User not found"
	MsgInvalidOldPassword     = "Old password is not correct"
	MsgEmailExisted           = "Email is already existed"
	MsgInvalidEmailOrPassword = "Invalid email or password"
	MsgUserNotActive          = "User is not active"
)

// CodeUserNotFound is the machine-readable companion to MsgUserNotFound,
// carried alongside the reason in 404 bodies.
const CodeUserNotFound = "USER_NOT_FOUND"
