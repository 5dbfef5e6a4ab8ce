package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/ux"
	"github.com/felixgeelhaar/scribe/internal/validate"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write comments on a post",
	Long: `List, add, edit and delete the comments of a post.

Examples:
  scribe comments list 12
  scribe comments add 12 --body "Nice write-up"
  scribe comments edit 12 40 --body "Nice write-up, thanks"
  scribe comments delete 12 40 --yes
`,
}

var commentsListCmd = &cobra.Command{
	Use:     "list <post-id>",
	Aliases: []string{"ls"},
	Short:   "List the comments of a post",
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runCommentsList),
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <post-id>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCommentsAdd),
}

var commentsEditCmd = &cobra.Command{
	Use:   "edit <post-id> <comment-id>",
	Short: "Edit one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runCommentsEdit),
}

var commentsDeleteCmd = &cobra.Command{
	Use:     "delete <post-id> <comment-id>",
	Aliases: []string{"rm"},
	Short:   "Delete one of your comments",
	Args:    cobra.ExactArgs(2),
	RunE:    withApp(runCommentsDelete),
}

var (
	commentBody      string
	commentDeleteYes bool
)

func init() {
	for _, c := range []*cobra.Command{commentsAddCmd, commentsEditCmd} {
		c.Flags().StringVar(&commentBody, "body", "", "comment text")
	}
	commentsDeleteCmd.Flags().BoolVarP(&commentDeleteYes, "yes", "y", false, "do not ask for confirmation")

	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsEditCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}

// loadComments fetches the comments of the post named by arg
func (a *app) loadComments(ctx context.Context, arg string) (*resource.Comments, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	postID, err := parseID("post_id", arg)
	if err != nil {
		return nil, err
	}
	comments := resource.NewComments(a.comments, postID)
	if err := comments.Load(ctx); err != nil {
		return nil, err
	}
	return comments, nil
}

// findComment looks for comment id on every page of the post's comments
func (a *app) findComment(ctx context.Context, postID, id int64) (domain.Comment, bool, error) {
	for page := 1; ; page++ {
		result, err := a.comments.GetByPostPage(ctx, postID, page, 0)
		if err != nil {
			return domain.Comment{}, false, err
		}
		for _, c := range result.Data {
			if c.ID == id {
				return c, true, nil
			}
		}
		if len(result.Data) == 0 || page >= result.Meta.LastPage {
			return domain.Comment{}, false, nil
		}
	}
}

// ownComment resolves the comment named by commentArg on the post named by
// postArg and checks the signed-in user wrote it
func (a *app) ownComment(ctx context.Context, postArg, commentArg string) (*resource.Comments, domain.Comment, error) {
	if err := a.requireSession(); err != nil {
		return nil, domain.Comment{}, err
	}
	postID, err := parseID("post_id", postArg)
	if err != nil {
		return nil, domain.Comment{}, err
	}
	id, err := parseID("comment_id", commentArg)
	if err != nil {
		return nil, domain.Comment{}, err
	}

	c, found, err := a.findComment(ctx, postID, id)
	if err != nil {
		return nil, domain.Comment{}, err
	}
	if !found {
		return nil, domain.Comment{}, errors.NewInputInvalidError(errors.FieldErrors{{
			Field:    "comment_id",
			Messages: []string{fmt.Sprintf("Post %d has no comment %d", postID, id)},
		}})
	}
	if !c.OwnedBy(a.session.User()) {
		return nil, domain.Comment{}, errors.NewNotOwnerError("comment")
	}
	return resource.NewComments(a.comments, postID), c, nil
}

func commentText(initial string) (string, error) {
	body := initial
	if body == "" && shouldPrompt() {
		if err := ux.PromptText("Comment", &body); err != nil {
			return "", err
		}
	}
	if err := validate.Err(validate.Comment(body)); err != nil {
		return "", err
	}
	return body, nil
}

func runCommentsList(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	comments, err := a.loadComments(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(commentList{PostID: comments.PostID(), Comments: comments.Snapshot().Data})
}

func runCommentsAdd(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	postID, err := parseID("post_id", args[0])
	if err != nil {
		return err
	}
	body, err := commentText(commentBody)
	if err != nil {
		return err
	}

	created, err := resource.NewComments(a.comments, postID).Add(ctx, body)
	if err != nil {
		return err
	}
	a.logger.Info("comment created", "post_id", postID, "comment_id", created.ID)
	return a.print(message{Message: "Comment added.", ID: created.ID})
}

func runCommentsEdit(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	comments, existing, err := a.ownComment(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	initial := commentBody
	if initial == "" && shouldPrompt() {
		initial = existing.Body
		if err := ux.PromptText("Comment", &initial); err != nil {
			return err
		}
	}
	body, err := commentText(initial)
	if err != nil {
		return err
	}

	updated, err := comments.Update(ctx, existing.ID, body)
	if err != nil {
		return err
	}
	a.logger.Info("comment updated", "comment_id", updated.ID)
	return a.print(message{Message: "Comment updated.", ID: updated.ID})
}

func runCommentsDelete(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	comments, existing, err := a.ownComment(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := confirm("Delete this comment?", commentDeleteYes); err != nil {
		return err
	}

	if err := comments.Delete(ctx, existing.ID); err != nil {
		return err
	}
	a.logger.Info("comment deleted", "comment_id", existing.ID)
	return a.print(message{Message: "Comment deleted.", ID: existing.ID})
}
