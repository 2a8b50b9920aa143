package auth

import "errors"

var (
	ErrorEmailMissing       = errors.New("email_missing")
	ErrorEmailInvalidAt     = errors.New("email_invalid_at")
	ErrorEmailEmptyDomain   = errors.New("email_empty_domain")
	ErrorEmailDomainInvalid = errors.New("email_domain_invalid")
	ErrorEmailUserInvalid   = errors.New("email_user_invalid")

	ErrorJwtClaimsInvalid = errors.New("jwt_claims_invalid")
	ErrorJwtTokenExpired  = errors.New("jwt_token_expired")
)
