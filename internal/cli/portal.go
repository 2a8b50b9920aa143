package cli

import (
	"context"

	"hrdesk/internal/notifications"
	"hrdesk/internal/session"
	"hrdesk/pkg/portal"
)

// PortalAuthChecker adapts the portal SDK's session-check endpoint to the
// gate's AuthChecker seam.
type PortalAuthChecker struct {
	Client *portal.Client
}

func (p PortalAuthChecker) CheckSession(_ context.Context) (*session.User, error) {
	output, err := p.Client.WhoAmIV1()
	if err != nil {
		return nil, err
	}
	if output.Data.User == nil {
		return nil, nil
	}
	return &session.User{
		Id:    output.Data.User.Id,
		Name:  output.Data.User.Name,
		Email: output.Data.User.Email,
		Role:  session.Role(output.Data.User.Role),
	}, nil
}

// PortalReadConfirmer adapts the mark-as-read endpoint to the inbox's
// ReadConfirmer seam.
type PortalReadConfirmer struct {
	Client *portal.Client
}

func (p PortalReadConfirmer) ConfirmRead(_ context.Context, notificationId string) error {
	_, err := p.Client.MarkNotificationReadV1(notificationId)
	return err
}

func (p PortalReadConfirmer) IsTransportError(err error) bool {
	return portal.IsTransportError(err)
}

// FromPortalNotifications converts a fetched snapshot into inbox entries.
func FromPortalNotifications(items []portal.NotificationV1) []notifications.Notification {
	converted := make([]notifications.Notification, 0, len(items))
	for _, item := range items {
		converted = append(converted, notifications.Notification{
			Id:        item.Id,
			Kind:      notifications.Kind(item.Kind),
			Message:   item.Message,
			Read:      item.Read,
			CreatedAt: item.CreatedAt,
			Origin:    notifications.OriginFetch,
		})
	}
	return converted
}
