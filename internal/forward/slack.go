package forward

import (
	"fmt"

	"github.com/slack-go/slack"

	"hrdesk/internal/common"
	"hrdesk/internal/notifications"
)

// SlackForwarder relays received notifications to a personal Slack
// channel. Delivery is best-effort: a failed post is logged by the
// caller, never retried here.
type SlackForwarder struct {
	client      *slack.Client
	channelId   string
	serviceLogs chan<- common.ServiceLog
}

type NewSlackForwarderOpts struct {
	BotToken    string
	ChannelId   string
	ServiceLogs chan<- common.ServiceLog
}

func NewSlackForwarder(opts NewSlackForwarderOpts) (*SlackForwarder, error) {
	if opts.BotToken == "" {
		return nil, fmt.Errorf("slack bot token is required")
	}
	if opts.ChannelId == "" {
		return nil, fmt.Errorf("slack channel id is required")
	}
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	return &SlackForwarder{
		client:      slack.New(opts.BotToken),
		channelId:   opts.ChannelId,
		serviceLogs: serviceLogs,
	}, nil
}

// Forward posts a single notification.
func (s *SlackForwarder) Forward(notification notifications.Notification) error {
	text := fmt.Sprintf("*%s*: %s", notification.Kind, notification.Message)
	_, _, err := s.client.PostMessage(
		s.channelId,
		slack.MsgOptionBlocks(
			slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
		),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return fmt.Errorf("failed to post notification[%s] to slack: %s", notification.Id, err)
	}
	s.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "forwarded notification[%s] to slack channel[%s]", notification.Id, s.channelId)
	return nil
}
