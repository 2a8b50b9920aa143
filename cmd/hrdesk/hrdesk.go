package hrdesk

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/cmd/hrdesk/dashboard"
	"hrdesk/cmd/hrdesk/login"
	"hrdesk/cmd/hrdesk/logout"
	"hrdesk/cmd/hrdesk/notifications"
	"hrdesk/cmd/hrdesk/utils"
	"hrdesk/cmd/hrdesk/whoami"
	"hrdesk/internal/cli"
	"hrdesk/internal/common"
)

var availableLogLevels = []string{
	string(common.LogLevelTrace),
	string(common.LogLevelDebug),
	string(common.LogLevelInfo),
	string(common.LogLevelWarn),
	string(common.LogLevelError),
}

var persistentFlags cli.Flags = cli.Flags{
	{
		Name:         "config",
		Short:        'C',
		DefaultValue: "",
		Usage:        "Defines the location of a configuration file to load",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "log-level",
		Short:        'l',
		DefaultValue: "info",
		Usage:        fmt.Sprintf("Sets the log level (one of [%s])", strings.Join(availableLogLevels, ", ")),
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "output",
		Short:        'o',
		DefaultValue: "text",
		Usage:        fmt.Sprintf("Sets the output format where applicable (one of [%s])", strings.Join(cli.OutputFormats, ", ")),
		Type:         cli.FlagTypeString,
	},
}

func init() {
	cobra.AddTemplateFunc("prependText", func() string {
		return cli.Logo + "\n"
	})
	Command.SetHelpTemplate(`{{ prependText }}` + Command.HelpTemplate())

	Command.AddCommand(dashboard.Command)
	Command.AddCommand(login.Command)
	Command.AddCommand(logout.Command)
	Command.AddCommand(notifications.Command)
	Command.AddCommand(utils.Command)
	Command.AddCommand(whoami.Command)
	Command.SilenceErrors = true
	Command.SilenceUsage = true

	persistentFlags.AddToCommand(Command, true)

	logrus.SetOutput(os.Stderr)
	cobra.OnInitialize(func() {
		persistentFlags.BindViper(Command, true)
		cli.InitLogging(viper.GetString("log-level"))
		configPath := viper.GetString("config")
		if configPath != "" {
			viper.SetConfigFile(configPath)
			if err := viper.ReadInConfig(); err != nil {
				logrus.Warnf("failed to read configuration at path[%s]: %s", configPath, err)
			} else {
				logrus.Debugf("using configuration at path[%s]", configPath)
			}
		}
	})

	cli.InitConfig()
}

var Command = &cobra.Command{
	Use:   "hrdesk",
	Short: "The HR portal in your terminal",
	Long:  "The HR portal in your terminal - payroll, incentives, attendance and notifications without leaving your shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
