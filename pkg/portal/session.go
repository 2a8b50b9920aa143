package portal

import (
	"fmt"
	"net/http"
	"time"
)

// UserV1 mirrors the portal's user payload; Role arrives as a free-form
// string and is normalised by internal/session.ParseRole.
type UserV1 struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateSessionV1Input struct {
	// Role selects the role-specific login endpoint (admin|employee)
	Role     string `json:"-"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Hostname string `json:"hostname"`
}

type CreateSessionV1Output struct {
	Data CreateSessionV1OutputData

	http.Response
}

type CreateSessionV1OutputData struct {
	SessionId    string `json:"sessionId"`
	SessionToken string `json:"sessionToken"`
	User         UserV1 `json:"user"`

	// MfaEnabled indicates the account requires a second factor; when it
	// is set without a SessionToken, LoginId identifies the pending login
	// to pass to StartSessionWithMfaV1
	MfaEnabled bool    `json:"mfaEnabled"`
	LoginId    *string `json:"loginId"`
}

// IsMfaPending reports whether the login stopped at the second factor.
func (o CreateSessionV1Output) IsMfaPending() bool {
	return o.Data.MfaEnabled && o.Data.SessionToken == ""
}

func (c Client) CreateSessionV1(opts CreateSessionV1Input) (*CreateSessionV1Output, error) {
	var outputData CreateSessionV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/v1/session/%s", opts.Role),
		Data:   opts,
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorInvalidCredentials.Error():
			err = ErrorInvalidCredentials
		case ErrorRoleMismatch.Error():
			err = ErrorRoleMismatch
		}
	}
	return &CreateSessionV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type StartSessionWithMfaV1Input struct {
	Hostname string `json:"hostname"`
	LoginId  string `json:"-"`
	MfaToken string `json:"mfaToken"`
}

func (c Client) StartSessionWithMfaV1(opts StartSessionWithMfaV1Input) (*CreateSessionV1Output, error) {
	var outputData CreateSessionV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/v1/session/mfa/%s", opts.LoginId),
		Data:   opts,
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorMfaTokenInvalid.Error():
			err = ErrorMfaTokenInvalid
		}
	}
	return &CreateSessionV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type WhoAmIV1Output struct {
	Data WhoAmIV1OutputData

	http.Response
}

// WhoAmIV1OutputData is the session-check payload; an absent User means
// the caller holds no valid session.
type WhoAmIV1OutputData struct {
	User      *UserV1   `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
	StartedAt time.Time `json:"startedAt"`
}

func (c Client) WhoAmIV1() (*WhoAmIV1Output, error) {
	var outputData WhoAmIV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/api/v1/session",
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorAuthRequired.Error():
			err = ErrorAuthRequired
		case ErrorSessionExpired.Error():
			err = ErrorSessionExpired
		}
	}
	return &WhoAmIV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type DeleteSessionV1Output struct {
	Data DeleteSessionV1OutputData

	http.Response
}

type DeleteSessionV1OutputData struct {
	SessionId string `json:"sessionId"`
}

func (c Client) DeleteSessionV1() (*DeleteSessionV1Output, error) {
	var outputData DeleteSessionV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodDelete,
		Path:   "/api/v1/session",
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorAuthRequired.Error():
			err = ErrorAuthRequired
		case ErrorSessionExpired.Error():
			err = ErrorSessionExpired
		}
	}
	return &DeleteSessionV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
