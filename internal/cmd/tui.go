package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/tui"
)

// runTUI opens the interactive client on the view named by --open
func runTUI(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if open, _ := cmd.Flags().GetString("open"); open != "" {
		a.router.Navigate(resource.Resolve(open))
	}

	return tui.Run(ctx, tui.Deps{
		Session:  a.session,
		Router:   a.router,
		Auth:     a.auth,
		Posts:    a.posts,
		Comments: a.comments,
		Logger:   a.logger,
		PerPage:  a.cfg.Posts.PerPage,
		NoColor:  a.cfg.Display.NoColor,
	})
}
