package portal

import (
	"fmt"
	"net/http"
	"time"
)

type NotificationV1 struct {
	Id        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListNotificationsV1Output struct {
	Data ListNotificationsV1OutputData

	http.Response
}

type ListNotificationsV1OutputData struct {
	Notifications []NotificationV1 `json:"notifications"`
}

// ListNotificationsV1 retrieves the caller's current notification
// snapshot; the service scopes the list by the session's role.
func (c Client) ListNotificationsV1() (*ListNotificationsV1Output, error) {
	var outputData ListNotificationsV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/api/v1/notifications",
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
	return &ListNotificationsV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type MarkNotificationReadV1Output struct {
	Data MarkNotificationReadV1OutputData

	http.Response
}

type MarkNotificationReadV1OutputData struct {
	Id string `json:"id"`
}

// MarkNotificationReadV1 acknowledges a single notification; callers only
// depend on success/failure, not on the response body.
func (c Client) MarkNotificationReadV1(notificationId string) (*MarkNotificationReadV1Output, error) {
	var outputData MarkNotificationReadV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/v1/notifications/%s/read", notificationId),
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorAuthRequired.Error():
			err = ErrorAuthRequired
		case ErrorNotFound.Error():
			err = ErrorNotFound
		case ErrorInvalidInput.Error():
			err = ErrorInvalidInput
		}
	}
	return &MarkNotificationReadV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
