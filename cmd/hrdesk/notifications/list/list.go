package list

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/notifications"
	"hrdesk/internal/store"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "portal-url",
		DefaultValue: common.DefaultPortalUrl,
		Usage:        "defines the url where the HR portal service is accessible at",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "cached",
		DefaultValue: false,
		Usage:        "lists from the local cache without contacting the portal",
		Type:         cli.FlagTypeBool,
	},
	{
		Name:         "unread-only",
		DefaultValue: false,
		Usage:        "only shows unread notifications",
		Type:         cli.FlagTypeBool,
	},
	{
		Name:         "limit",
		DefaultValue: 50,
		Usage:        "caps the number of notifications shown",
		Type:         cli.FlagTypeInteger,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "list",
	Short: "Lists your notifications",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var items []notifications.Notification
		if viper.GetBool("cached") {
			cached, err := listFromCache(ctx)
			if err != nil {
				return err
			}
			items = cached
		} else {
			fetched, err := listFromPortal(ctx)
			if err != nil {
				return err
			}
			items = fetched
		}

		if viper.GetBool("unread-only") {
			filtered := items[:0]
			for _, item := range items {
				if !item.Read {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
		if limit := viper.GetInt("limit"); limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		switch outputFormat := viper.GetString("output"); outputFormat {
		case cli.OutputFormatText:
			printNotificationsTable(items)
		default:
			encoded, err := cli.EncodeOutput(items, outputFormat)
			if err != nil {
				return err
			}
			fmt.Println(encoded)
		}
		return nil
	},
}

func listFromCache(ctx context.Context) ([]notifications.Notification, error) {
	dbPath, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}
	cache, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open the notification cache: %s", err)
	}
	defer cache.Close()
	return cache.ListNotifications(ctx, store.ListFilter{})
}

func listFromPortal(ctx context.Context) ([]notifications.Notification, error) {
	authContext, err := cli.RequireAuth(viper.GetString("portal-url"), "hrdesk/notifications/list")
	if err != nil {
		return nil, err
	}

	listOutput, err := authContext.Client.ListNotificationsV1()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %s", err)
	}

	inbox := notifications.NewInbox(cli.PortalReadConfirmer{Client: authContext.Client}, nil)
	inbox.ApplySnapshot(cli.FromPortalNotifications(listOutput.Data.Notifications))
	items := inbox.List()

	// cache refresh is best-effort, a listing shouldn't fail on it
	if dbPath, err := store.DefaultPath(); err == nil {
		if cache, err := store.NewStore(dbPath); err == nil {
			defer cache.Close()
			if err := cache.UpsertNotifications(ctx, items); err != nil {
				logrus.Warnf("failed to refresh the notification cache: %s", err)
			}
		} else {
			logrus.Warnf("failed to open the notification cache: %s", err)
		}
	}

	return items, nil
}

func printNotificationsTable(items []notifications.Notification) {
	if len(items) == 0 {
		fmt.Println("You have no notifications, enjoy the quiet")
		return
	}
	now := time.Now()
	unreadCount := 0
	table := cli.NewTable(cli.NewTableOpts{
		Headers: []string{"", "kind", "message", "when", "id"},
		Rows: func(t *cli.Table) error {
			for _, item := range items {
				badge := ""
				if !item.Read {
					badge = "●"
					unreadCount++
				}
				t.NewRow(badge, string(item.Kind), item.Message, item.TimeElapsed(now), item.Id)
			}
			return nil
		},
	})
	fmt.Println(table.Render().GetString())
	fmt.Printf("%d notification(s), %d unread\n", len(items), unreadCount)
}
