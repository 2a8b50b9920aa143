package portal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"hrdesk/internal/common"
)

// DefaultRequestTimeout bounds every round trip so callers suspended on a
// session check or notification fetch can't hang indefinitely.
const DefaultRequestTimeout = 10 * time.Second

type NewClientOpts struct {
	// PortalUrl is the URL where the HR portal service is accessible at
	PortalUrl string

	BearerAuth *NewClientBearerAuthOpts

	// Id will be included in the user-agent for identification
	Id string

	// Timeout overrides DefaultRequestTimeout when non-zero
	Timeout time.Duration
}

type NewClientBearerAuthOpts struct {
	Token string
}

func NewClient(opts NewClientOpts) (*Client, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	client := &Client{
		BearerAuth: opts.BearerAuth,
		HttpClient: &http.Client{Timeout: timeout},
		Id:         opts.Id,
	}

	portalUrl, err := url.Parse(opts.PortalUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provided portalUrl[%s]: %s", opts.PortalUrl, err)
	}
	if portalUrl.Scheme == "" {
		return nil, fmt.Errorf("failed to determine url scheme of portalUrl[%s]", opts.PortalUrl)
	}
	client.PortalUrl = portalUrl

	return client, nil
}

type Client struct {
	// PortalUrl is the URL where the HR portal service is accessible at
	PortalUrl *url.URL

	BearerAuth *NewClientBearerAuthOpts

	HttpClient *http.Client

	// Id will be included in the user-agent for identification
	Id string
}

type request struct {
	Method string
	Path   string
	Data   any
	Output any
}

type response struct {
	errorCode string
	envelope  common.HttpResponse
	raw       *http.Response
}

// GetErrorCode returns the machine-readable error code the portal service
// included in a failure envelope.
func (r *response) GetErrorCode() error {
	if r == nil || r.errorCode == "" {
		return ErrorUnknown
	}
	return errors.New(r.errorCode)
}

func (r *response) GetResponse() http.Response {
	if r == nil || r.raw == nil {
		return http.Response{}
	}
	return *r.raw
}

func (r *response) GetMessage() string {
	if r == nil {
		return ""
	}
	return r.envelope.Message
}

func (c Client) do(req request) (*response, error) {
	portalUrl := *c.PortalUrl
	portalUrl.Path = req.Path

	var requestBody io.Reader
	if req.Data != nil {
		requestBodyData, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrorClientMarshalInput, err)
		}
		requestBody = bytes.NewBuffer(requestBodyData)
	}

	httpRequest, err := http.NewRequest(req.Method, portalUrl.String(), requestBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrorClientRequestCreation, err)
	}
	httpRequest.Header.Add("Content-Type", "application/json")
	httpRequest.Header.Add("User-Agent", fmt.Sprintf("hrdesk/portal-sdk/client-%s", c.Id))
	if c.BearerAuth != nil {
		httpRequest.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.BearerAuth.Token))
	}

	httpResponse, err := c.HttpClient.Do(httpRequest)
	if err != nil {
		var urlError *url.Error
		if errors.As(err, &urlError) {
			if urlError.Timeout() {
				return nil, fmt.Errorf("%w: %s", ErrorConnectionTimedOut, err)
			}
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrorConnectionTimedOut, err)
			}
			if strings.Contains(urlError.Err.Error(), "connection refused") {
				return nil, fmt.Errorf("%w: %s", ErrorConnectionRefused, err)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrorClientRequestExecution, err)
	}
	defer httpResponse.Body.Close()

	output := &response{raw: httpResponse}
	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return output, fmt.Errorf("%w: %s", ErrorClientResponseReading, err)
	}
	if err := json.Unmarshal(responseBody, &output.envelope); err != nil {
		return output, fmt.Errorf("%w: %s", ErrorClientUnmarshalResponse, err)
	}

	if !output.envelope.Success || httpResponse.StatusCode != http.StatusOK {
		if errorCode, ok := output.envelope.Data.(string); ok {
			output.errorCode = errorCode
		}
		return output, fmt.Errorf(
			"%w (status code: %v): %s",
			ErrorClientUnsuccessfulResponse,
			httpResponse.StatusCode,
			output.envelope.Message,
		)
	}

	if req.Output != nil && output.envelope.Data != nil {
		responseData, err := json.Marshal(output.envelope.Data)
		if err != nil {
			return output, fmt.Errorf("%w: %s", ErrorClientUnmarshalOutput, err)
		}
		if err := json.Unmarshal(responseData, req.Output); err != nil {
			return output, fmt.Errorf("%w: %s", ErrorClientUnmarshalOutput, err)
		}
	}

	return output, nil
}
