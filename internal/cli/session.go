package cli

import (
	"context"
	"fmt"

	"hrdesk/internal/credential"
	"hrdesk/internal/session"
	"hrdesk/pkg/portal"
)

// AuthContext is what an authenticated command gets to work with.
type AuthContext struct {
	Client       *portal.Client
	Gate         *session.Gate
	Session      session.Session
	SessionToken string
}

// RequireAuth loads the stored session credential, verifies it against
// the portal and returns the resolved session. An invalid or expired
// credential is removed so the next run prompts a clean login.
func RequireAuth(portalUrl string, methodId string) (*AuthContext, error) {
	sessionToken, err := credential.Get(credential.KeySessionToken)
	if err != nil {
		fmt.Println("⚠️ You must be logged-in to run this command")
		return nil, fmt.Errorf("not authenticated")
	}

	client, err := portal.NewClient(portal.NewClientOpts{
		PortalUrl: portalUrl,
		BearerAuth: &portal.NewClientBearerAuthOpts{
			Token: sessionToken,
		},
		Id: methodId,
	})
	if err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}

	gate := session.NewGate(PortalAuthChecker{Client: client}, nil)
	resolved := gate.CheckAuth(context.Background())
	if !resolved.IsAuthenticated {
		if err := credential.Delete(credential.KeySessionToken); err != nil {
			fmt.Printf("⚠️ We failed to remove the session credential for you, please do it yourself\n")
		}
		fmt.Println("⚠️ Please login again using `hrdesk login`")
		return nil, fmt.Errorf("re-authentication needed")
	}

	return &AuthContext{
		Client:       client,
		Gate:         gate,
		Session:      resolved,
		SessionToken: sessionToken,
	}, nil
}

// RequireRole layers an authorization check on top of RequireAuth; a
// disallowed role is a distinct failure from not being logged in.
func RequireRole(portalUrl string, methodId string, allowed ...session.Role) (*AuthContext, error) {
	authContext, err := RequireAuth(portalUrl, methodId)
	if err != nil {
		return nil, err
	}
	decision := authContext.Gate.Authorize(allowed...)
	if decision.Type != session.DecisionAllow {
		fmt.Printf("⚠️ Your role isn't allowed to run this command\n")
		return nil, fmt.Errorf("unauthorized")
	}
	return authContext, nil
}
