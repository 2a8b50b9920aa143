package portal

import "errors"

// Error codes returned by the portal service in the response envelope's
// data field; the values have to stay in sync with the backend.
var (
	ErrorAuthRequired       = errors.New("auth_required")
	ErrorGeneric            = errors.New("generic_error")
	ErrorInvalidCredentials = errors.New("invalid_credentials")
	ErrorInvalidInput       = errors.New("invalid_input")
	ErrorMfaRequired        = errors.New("mfa_required")
	ErrorMfaTokenInvalid    = errors.New("mfa_token_invalid")
	ErrorNotFound           = errors.New("not_found")
	ErrorRoleMismatch       = errors.New("role_mismatch")
	ErrorSessionExpired     = errors.New("session_expired")
	ErrorUnknown            = errors.New("unknown_error")
)

// Client-side error classes; these never come from the wire.
var (
	ErrorClientMarshalInput         = errors.New("__client_marshal_input")
	ErrorClientRequestCreation      = errors.New("__client_request_creation")
	ErrorClientRequestExecution     = errors.New("__client_request_execution")
	ErrorClientResponseReading      = errors.New("__client_response_reading")
	ErrorClientUnmarshalResponse    = errors.New("__client_unmarshal_response")
	ErrorClientUnmarshalOutput      = errors.New("__client_unmarshal_output")
	ErrorClientUnsuccessfulResponse = errors.New("__client_unsuccessful_response")

	ErrorConnectionRefused  = errors.New("__connection_refused")
	ErrorConnectionTimedOut = errors.New("__connection_timed_out")
)

// IsTransportError reports whether the error happened before any response
// was received; callers use this to tell a rejection apart from a network
// failure (optimistic updates revert only on rejections).
func IsTransportError(err error) bool {
	return errors.Is(err, ErrorClientRequestExecution) ||
		errors.Is(err, ErrorConnectionRefused) ||
		errors.Is(err, ErrorConnectionTimedOut)
}
