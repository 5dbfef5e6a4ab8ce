package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/ux"
	"github.com/felixgeelhaar/scribe/internal/validate"
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"post"},
	Short:   "Read and write posts",
	Long: `Read the feed, open a post, publish and delete posts.

Examples:
  # Second page of the feed, 5 posts per page
  scribe posts list --page 2 --per-page 5

  # A post with its comments, as JSON
  scribe posts show 12 --format json

  # Publish from a file
  scribe posts create --title "Hello" --body-file draft.md

  # Delete without confirmation
  scribe posts delete 12 --yes
`,
}

var postsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "feed"},
	Short:   "List one page of the feed",
	Args:    cobra.NoArgs,
	RunE:    withApp(runPostsList),
}

var postsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a post and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runPostsShow),
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a post",
	Args:  cobra.NoArgs,
	RunE:  withApp(runPostsCreate),
}

var postsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete one of your posts",
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runPostsDelete),
}

var (
	postsPage     int
	postTitle     string
	postBody      string
	postBodyFile  string
	postDeleteYes bool
)

func init() {
	postsListCmd.Flags().IntVar(&postsPage, "page", 1, "page to show")

	postsCreateCmd.Flags().StringVar(&postTitle, "title", "", "post title")
	postsCreateCmd.Flags().StringVar(&postBody, "body", "", "post body")
	postsCreateCmd.Flags().StringVar(&postBodyFile, "body-file", "", "read the body from a file, or - for stdin")
	postsCreateCmd.MarkFlagsMutuallyExclusive("body", "body-file")

	postsDeleteCmd.Flags().BoolVarP(&postDeleteYes, "yes", "y", false, "do not ask for confirmation")

	postsCmd.AddCommand(postsListCmd, postsShowCmd, postsCreateCmd, postsDeleteCmd)
	rootCmd.AddCommand(postsCmd)
}

// parseID reads a positive numeric id argument
func parseID(field, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInputInvalidError(errors.FieldErrors{{
			Field:    field,
			Messages: []string{fmt.Sprintf("%q is not a valid id", arg)},
		}})
	}
	return id, nil
}

func runPostsList(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if postsPage < 1 {
		return errors.NewInputInvalidError(errors.FieldErrors{{Field: "page", Messages: []string{"Page must be at least 1"}}})
	}

	feed := resource.NewPosts(a.posts, a.router, postsPage, resource.WithPerPage(a.cfg.Posts.PerPage))
	if err := feed.Load(ctx); err != nil {
		return err
	}

	view := feed.Snapshot()
	out := postPage{Posts: view.Data}
	if view.Meta != nil {
		out.Meta = *view.Meta
	}
	return a.print(out)
}

func runPostsShow(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := parseID("id", args[0])
	if err != nil {
		return err
	}

	post := resource.NewPost(a.posts, id)
	comments := resource.NewComments(a.comments, id)
	if err := post.Load(ctx); err != nil {
		return err
	}
	if err := comments.Load(ctx); err != nil {
		return err
	}

	return a.print(postDetail{
		Post:     *post.Snapshot().Data,
		Comments: comments.Snapshot().Data,
	})
}

func readBody(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func runPostsCreate(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	req := domain.CreatePostRequest{Title: postTitle, Body: postBody}
	if postBodyFile != "" {
		body, err := readBody(postBodyFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		req.Body = body
	}
	if shouldPrompt() {
		if err := ux.PromptPost(&req); err != nil {
			return err
		}
	}
	if err := validate.Err(validate.Post(req)); err != nil {
		return err
	}

	post, err := a.posts.Create(ctx, req)
	if err != nil {
		return err
	}
	a.logger.Info("post created", "post_id", post.ID)
	return a.print(message{Message: fmt.Sprintf("Published %q.", post.Title), ID: post.ID})
}

// confirm asks before a destructive action. Without a terminal the caller
// must pass --yes.
func confirm(question string, yes bool) error {
	if yes {
		return nil
	}
	if !shouldPrompt() {
		return errors.NewInputRequiredError("yes").
			WithSuggestion("Pass --yes to confirm without a prompt")
	}
	ok, err := ux.Confirm(question, false)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewAbortedError()
	}
	return nil
}

func runPostsDelete(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := parseID("id", args[0])
	if err != nil {
		return err
	}

	post, err := a.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.OwnedBy(a.session.User()) {
		return errors.NewNotOwnerError("post")
	}
	if err := confirm(fmt.Sprintf("Delete %q?", post.Title), postDeleteYes); err != nil {
		return err
	}

	if err := a.posts.Delete(ctx, id); err != nil {
		return err
	}
	a.logger.Info("post deleted", "post_id", id)
	return a.print(message{Message: fmt.Sprintf("Deleted %q.", post.Title), ID: id})
}
