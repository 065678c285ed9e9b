package cmd

import (
	"errors"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/nfrund/regform/internal/authclient"
	"github.com/nfrund/regform/internal/config"
	"github.com/nfrund/regform/internal/domain"
	"github.com/nfrund/regform/internal/navigation"
	"github.com/nfrund/regform/internal/regform"
	"github.com/spf13/cobra"
)

// errSubmissionFailed makes the command exit non-zero after the form's error
// message has been printed.
var errSubmissionFailed = errors.New("submission failed")

type submitOptions struct {
	endpoint  string
	dashboard string
	timeout   time.Duration
	username  string
	email     string
	password  string
}

func newSubmitCmd() *cobra.Command {
	opts := submitOptions{}
	c := &cobra.Command{
		Use:   "submit",
		Short: "Submit the registration form to the auth endpoint",
		Long: `Fills in username, email and password, submits them exactly as the web
form does and prints either the navigation target or the error message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts)
		},
	}

	c.Flags().StringVar(&opts.endpoint, "endpoint", authclient.DefaultEndpoint, "auth endpoint URL")
	c.Flags().StringVar(&opts.dashboard, "dashboard", config.DefaultDashboardRoute, "route to navigate to on success")
	c.Flags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (0 uses the transport default)")
	c.Flags().StringVarP(&opts.username, "username", "u", "", "username")
	c.Flags().StringVarP(&opts.email, "email", "e", "", "email address")
	c.Flags().StringVarP(&opts.password, "password", "p", "", "password")
	for _, name := range []string{"username", "email", "password"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func runSubmit(cmd *cobra.Command, opts submitOptions) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	client, err := authclient.New(opts.endpoint,
		authclient.WithTimeout(opts.timeout),
		authclient.WithCookieJar(jar),
	)
	if err != nil {
		return err
	}

	form := regform.New("cli", client, opts.dashboard)
	defer form.Unmount()

	values := map[domain.Field]string{
		domain.FieldUsername: opts.username,
		domain.FieldEmail:    opts.email,
		domain.FieldPassword: opts.password,
	}
	for _, f := range domain.Fields {
		if err := form.SetField(f, values[f]); err != nil {
			return err
		}
	}

	nav := &navigation.Recorder{}
	outcome, err := form.Submit(cmd.Context(), nav)
	if err != nil {
		return err
	}
	if outcome != regform.OutcomeSuccess {
		cmd.PrintErrln(form.ErrorMessage())
		return errSubmissionFailed
	}
	for _, route := range nav.Routes() {
		cmd.Printf("navigate: %s\n", route)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newSubmitCmd())
}
