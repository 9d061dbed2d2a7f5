package auth

const (
	MsgRegisterSuccess    = "Thank you for registering. A verification link was sent to your email."
	MsgLoggedIn           = "Logged in."
	MsgLoggedOut          = "See you later."
	MsgVerifySuccess      = "Your email address is verified."
	MsgVerifyNotFound     = "This verification link is invalid or was already used."
	MsgReVerifySuccess    = "A verification link was sent to your email."
	MsgAlreadyVerified    = "Your email address is already verified."
	MsgPasswordChanged    = "Your password was changed."
	MsgResetValid         = "The password reset link is valid."
	MsgUserExists         = "An account with that email already exists."
	MsgWrongPassword      = "Your old password was entered incorrectly."
	MsgPasswordMismatch   = "The two password fields didn't match."
	MsgHostWelcome        = "Welcome to the host area."
	MsgFmtFindUserByEmail = "find user by email: %w"
	MsgFmtFindUser        = "find user: %w"
	MsgFmtHashPassword    = "hash password: %w"
	MsgFmtVerifyPassword  = "verify password: %w"
	MsgFmtStorePassword   = "store password: %w"

	subjectVerification   = "Verify your email"
	subjectResetPassword  = "Reset your password"
	templateVerification  = "verification"
	templateResetPassword = "reset_password"
	pathVerify            = "/auth/verify/"
	pathReset             = "/auth/reset"
)
