package docsgen

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/viper"

	"hrdesk/cmd/hrdesk"
	"hrdesk/internal/cli"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "docs-path",
		DefaultValue: "./docs/cli",
		Usage:        "defines the path to the documentation",
		Type:         cli.FlagTypeString,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "docsgen",
	Short: "Generates the CLI documentation in Markdown",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		docsPath := viper.GetString("docs-path")
		logrus.Infof("generating documentation at path[%s]", docsPath)
		if err := os.MkdirAll(docsPath, 0755); err != nil {
			return err
		}
		commandMap := map[string]bool{}
		if err := doc.GenMarkdownTreeCustom(hrdesk.Command, docsPath, func(in string) string {
			return ""
		}, func(in string) string {
			commandMap[in] = true
			return fmt.Sprintf("cli/%s", in)
		}); err != nil {
			return fmt.Errorf("failed to generate markdown tree")
		}
		commandList := []string{}
		for k := range commandMap {
			commandList = append(commandList, k)
		}
		var sidebar strings.Builder
		sort.Strings(commandList)
		sidebar.WriteString("* [Home](/)\n")
		sidebar.WriteString("* [hrdesk](cli/hrdesk)\n")
		for _, cmd := range commandList {
			commandName := strings.Split(cmd, ".")
			commandParts := strings.Split(commandName[0], "_")
			if len(commandParts) > 1 {
				for i := 0; i < len(commandParts)-1; i++ {
					sidebar.WriteString("  ")
				}
				sidebar.WriteString(fmt.Sprintf("* [%s](cli/%s)\n", commandParts[len(commandParts)-1], cmd))
			}
		}
		return os.WriteFile(path.Join(docsPath, "_sidebar.md"), []byte(sidebar.String()), 0755)
	},
}
