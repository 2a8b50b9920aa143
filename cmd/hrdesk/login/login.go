package login

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrdesk/internal/auth"
	"hrdesk/internal/cli"
	"hrdesk/internal/common"
	"hrdesk/internal/credential"
	"hrdesk/internal/session"
	"hrdesk/pkg/portal"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "portal-url",
		DefaultValue: common.DefaultPortalUrl,
		Usage:        "Defines the url where the HR portal service is accessible at",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "as",
		DefaultValue: "employee",
		Usage:        "Defines the role you are logging in as (admin|employee)",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "email",
		DefaultValue: "",
		Usage:        "the email address of your HR portal account",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "password",
		DefaultValue: "",
		Usage:        "the password for your account to be used with your email address to authenticate",
		Type:         cli.FlagTypeString,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "login",
	Short: "Login to the HR portal",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := credential.Get(credential.KeySessionToken); err == nil {
			return fmt.Errorf("looks like you're already logged in, run `hrdesk logout` first before running this command")
		}

		role, err := session.ParseRole(viper.GetString("as"))
		if err != nil {
			return fmt.Errorf("failed to parse role: %s", err)
		}

		if viper.GetString("password") != "" {
			fmt.Println(
				"⚠️ !!! WARNING !!! ⚠️\n" +
					"Using a password directly on the command line isn't generally recommended\n" +
					"since anyone can see it using the `history` command. Run `history -c` to\n" +
					"remove this from this shell if this is a shared shell")
		}

		fmt.Printf("\nLogging into\n%s\n", cli.Logo)
		if viper.GetString("email") == "" || viper.GetString("password") == "" {
			fmt.Printf("To get started, we'll need a couple of details from you:\n\n")
		}

		model := cli.CreatePrompt(cli.PromptOpts{
			Inputs: []cli.PromptInput{
				{
					Id:          "email",
					Placeholder: "Your email address",
					Type:        cli.PromptString,
					Value:       viper.GetString("email"),
				},
				{
					Id:          "password",
					Placeholder: "Your password",
					Type:        cli.PromptPassword,
					Value:       viper.GetString("password"),
				},
			},
		})
		prompt := tea.NewProgram(model)
		if _, err := prompt.Run(); err != nil {
			return fmt.Errorf("failed to get user input: %s", err)
		}
		if model.GetExitCode() == cli.PromptCancelled {
			return errors.New("See you soon maybe?")
		}

		email := model.GetValue("email")
		if _, err := auth.IsEmailValid(email); err != nil {
			fmt.Printf("⚠️  The provided email (%s) was not valid\n", email)
			return fmt.Errorf("email invalid")
		}
		password := model.GetValue("password")

		portalUrl := viper.GetString("portal-url")
		client, err := portal.NewClient(portal.NewClientOpts{
			PortalUrl: portalUrl,
			Id:        "hrdesk/login",
		})
		if err != nil {
			return fmt.Errorf("failed to create portal client: %s", err)
		}
		hostname, _ := os.Hostname()

		createSessionOutput, err := client.CreateSessionV1(portal.CreateSessionV1Input{
			Role:     string(role),
			Email:    email,
			Password: password,
			Hostname: hostname,
		})
		if err != nil {
			switch {
			case errors.Is(err, portal.ErrorInvalidCredentials):
				fmt.Println("⚠️  The provided credentials don't seem correct, try again")
				return fmt.Errorf("credentials validation failed")
			case errors.Is(err, portal.ErrorRoleMismatch):
				fmt.Printf("⚠️  Your account doesn't hold the %s role, try `hrdesk login --as %s`\n", role, otherRole(role))
				return fmt.Errorf("role validation failed")
			default:
				return fmt.Errorf("failed to create session for unexpected reasons: %s", err)
			}
		}

		if createSessionOutput.IsMfaPending() {
			createSessionOutput, err = completeMfaLogin(client, createSessionOutput, hostname)
			if err != nil {
				return err
			}
		}

		if err := credential.Set(credential.KeySessionToken, createSessionOutput.Data.SessionToken); err != nil {
			return fmt.Errorf("failed to store session credential: %s", err)
		}

		fmt.Printf("Welcome back!\nSession ID: %s\n", createSessionOutput.Data.SessionId)
		fmt.Printf("Your dashboard: %s\n", session.DashboardRoute(role))
		return nil
	},
}

func otherRole(role session.Role) session.Role {
	if role == session.RoleAdmin {
		return session.RoleEmployee
	}
	return session.RoleAdmin
}

// completeMfaLogin finishes a login the portal left pending on a second
// factor. If a TOTP seed is stored locally the code is derived from it,
// otherwise the user types the one from their authenticator app.
func completeMfaLogin(
	client *portal.Client,
	pendingLogin *portal.CreateSessionV1Output,
	hostname string,
) (*portal.CreateSessionV1Output, error) {
	if pendingLogin == nil || pendingLogin.Data.LoginId == nil {
		return nil, fmt.Errorf("portal requested mfa but didn't identify the pending login")
	}

	var mfaToken string
	if seed, err := credential.Get(credential.KeyTotpSeed); err == nil {
		mfaToken, err = auth.CreateTotpToken(seed)
		if err != nil {
			return nil, fmt.Errorf("failed to derive totp token from the stored seed: %s", err)
		}
		logrus.Debugf("derived mfa token from the stored totp seed")
	} else {
		model := cli.CreatePrompt(cli.PromptOpts{
			Title: "This account has MFA enabled",
			Inputs: []cli.PromptInput{
				{
					Id:          "mfa-token",
					Placeholder: "The code from your authenticator app",
					Type:        cli.PromptString,
				},
			},
		})
		prompt := tea.NewProgram(model)
		if _, err := prompt.Run(); err != nil {
			return nil, fmt.Errorf("failed to get user input: %s", err)
		}
		if model.GetExitCode() == cli.PromptCancelled {
			return nil, errors.New("See you soon maybe?")
		}
		mfaToken = model.GetValue("mfa-token")
	}

	output, err := client.StartSessionWithMfaV1(portal.StartSessionWithMfaV1Input{
		Hostname: hostname,
		LoginId:  *pendingLogin.Data.LoginId,
		MfaToken: mfaToken,
	})
	if err != nil {
		if errors.Is(err, portal.ErrorMfaTokenInvalid) {
			fmt.Println("⚠️  That code wasn't accepted, try logging in again")
			return nil, fmt.Errorf("mfa token validation failed")
		}
		return nil, fmt.Errorf("failed to complete mfa login: %s", err)
	}
	return output, nil
}
