package wire

// Predefined URIs for session close reasons and router error responses.
const (
	// -- Session close --

	CloseNormal         = URI("wamp.close.normal")
	CloseSystemShutdown = URI("wamp.close.system_shutdown")
	CloseRealm          = URI("wamp.close.close_realm")
	CloseGoodbyeAndOut  = URI("wamp.close.goodbye_and_out")

	// -- Interaction errors --

	// A URI-valued attribute (realm, topic, procedure) was malformed.
	ErrInvalidURI = URI("wamp.error.invalid_uri")

	// No procedure is registered under the called URI.
	ErrNoSuchProcedure = URI("wamp.error.no_such_procedure")

	// A procedure with the given URI is already registered.
	ErrProcedureAlreadyExists = URI("wamp.error.procedure_already_exists")

	// The registration being removed is not active.
	ErrNoSuchRegistration = URI("wamp.error.no_such_registration")

	// The subscription being removed is not active.
	ErrNoSuchSubscription = URI("wamp.error.no_such_subscription")

	// Argument types or values not acceptable to the callee, or a peer
	// referenced an ID the receiver does not hold.
	ErrInvalidArgument = URI("wamp.error.invalid_argument")

	// -- Authorization / session --

	ErrNotAuthorized        = URI("wamp.error.not_authorized")
	ErrAuthenticationFailed = URI("wamp.error.authentication_failed")
	ErrNoSuchRealm          = URI("wamp.error.no_such_realm")

	// -- Advanced --

	// A call or invocation was canceled before completing.
	ErrCanceled = URI("wamp.error.canceled")

	// A peer received a message that violates the protocol.
	ErrProtocolViolation = URI("wamp.error.protocol_violation")

	// The router encountered a network failure.
	ErrNetworkFailure = URI("wamp.error.network_failure")
)
