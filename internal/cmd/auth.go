package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/ux"
	"github.com/felixgeelhaar/scribe/internal/validate"
)

// PasswordEnv supplies the password to login and register without a flag
const PasswordEnv = "SCRIBE_PASSWORD"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up and sign out",
	Long: `Manage the session used by every other command.

Examples:
  # Create an account (prompts for missing fields)
  scribe auth register --name "Ada Lovelace" --email ada@example.com

  # Sign in non-interactively
  SCRIBE_PASSWORD=secret scribe auth login --email ada@example.com

  # Show who is signed in
  scribe auth status
`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the blog API",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthLogin),
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthRegister),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthLogout),
}

var authStatusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show the signed-in user",
	Args:    cobra.NoArgs,
	RunE:    withApp(runAuthStatus),
}

var (
	authName     string
	authEmail    string
	authPassword string
)

func init() {
	for _, c := range []*cobra.Command{authLoginCmd, authRegisterCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password (or set "+PasswordEnv+")")
	}
	authRegisterCmd.Flags().StringVar(&authName, "name", "", "display name")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func password() string {
	if authPassword != "" {
		return authPassword
	}
	return os.Getenv(PasswordEnv)
}

func (a *app) authHook() *resource.Auth {
	return resource.NewAuth(a.auth, a.session, a.router, a.logger)
}

func (a *app) sessionView(msg string) sessionView {
	return sessionView{
		Authenticated: a.session.IsAuthenticated(),
		User:          a.session.User(),
		Storage:       a.cfg.Storage.Backend + ":" + a.cfg.Storage.Path,
		Message:       msg,
	}
}

func runAuthLogin(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	req := domain.LoginRequest{Email: authEmail, Password: password()}
	if shouldPrompt() {
		if err := ux.PromptLogin(&req); err != nil {
			return err
		}
	}
	if err := validate.Err(validate.Login(req)); err != nil {
		return err
	}

	if err := a.authHook().Login(ctx, req); err != nil {
		return err
	}
	a.logger.Info("signed in", "user_id", a.session.User().ID)
	return a.print(a.sessionView("Welcome back!"))
}

func runAuthRegister(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	pw := password()
	req := domain.RegisterRequest{Name: authName, Email: authEmail, Password: pw, PasswordConfirmation: pw}
	if shouldPrompt() {
		if req.Password == "" {
			req.PasswordConfirmation = ""
		}
		if err := ux.PromptRegister(&req); err != nil {
			return err
		}
	}
	if err := validate.Err(validate.Register(req)); err != nil {
		return err
	}

	if err := a.authHook().Register(ctx, req); err != nil {
		return err
	}
	a.logger.Info("registered", "user_id", a.session.User().ID)
	return a.print(a.sessionView("Account created."))
}

func runAuthLogout(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if !a.session.IsAuthenticated() {
		return a.print(a.sessionView(""))
	}
	a.authHook().Logout(ctx)
	return a.print(a.sessionView("Signed out."))
}

func runAuthStatus(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	return a.print(a.sessionView(""))
}
