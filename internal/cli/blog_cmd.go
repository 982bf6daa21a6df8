package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/spf13/cobra"
)

func newBlogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "blog",
		Short:       "Manage blog posts",
		Annotations: guarded,
	}

	cmd.AddCommand(
		newBlogListCmd(app),
		newBlogShowCmd(app),
		newBlogCreateCmd(app),
		newBlogPublishCmd(app),
		newBlogDeleteCmd(app),
		newBlogUploadCmd(app),
	)

	return cmd
}

func newBlogListCmd(app *App) *cobra.Command {
	var pf pageFlags
	var search, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blog posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := pf.pagination()
			if err != nil {
				return err
			}
			if status != "" && status != string(domain.BlogDraft) && status != string(domain.BlogPublished) {
				return fmt.Errorf("unknown status %q (use draft or published)", status)
			}

			out := cmd.OutOrStdout()
			page, listErr := app.Blogs.List(cmd.Context(), service.BlogFilter{
				Search:     search,
				Status:     domain.BlogStatus(status),
				Pagination: pg,
			})
			if err := reportFailure(out, listErr); err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatBlogPosts(page.Items))
			if listErr == nil {
				fmt.Fprintln(out, formatter.FormatPageFooter(len(page.Items), page.Total(), pg.Offset))
			}
			return nil
		},
	}

	pf.register(cmd.Flags(), 25)
	cmd.Flags().StringVar(&search, "search", "", "Match title")
	cmd.Flags().StringVar(&status, "status", "", "Only draft or published posts")

	return cmd
}

func newBlogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Blogs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBlogPost(p))
			return nil
		},
	}
}

func newBlogCreateCmd(app *App) *cobra.Command {
	var in blogInput
	var contentFile, cover string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a blog post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				data, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("reading content: %w", err)
				}
				in.Content = string(data)
			}

			if in.Title == "" || in.Content == "" {
				if !app.interactive() {
					return errors.New("--title and --content (or --content-file) are required when not running in a terminal")
				}
				if err := wizardBlogPost(&in).Run(); err != nil {
					return err
				}
			}

			post := in.post()
			if cover != "" {
				url, err := app.Blogs.UploadCover(cmd.Context(), cover)
				if err != nil {
					return err
				}
				post.CoverURL = url
			}

			created, err := app.Blogs.Create(cmd.Context(), post)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n",
				formatter.BlogStatusPill(created.Status), formatter.Bold(created.Title), created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Post title")
	cmd.Flags().StringVar(&in.Summary, "summary", "", "Short summary shown in listings")
	cmd.Flags().StringVar(&in.Content, "content", "", "Post body")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read the post body from a file")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image to upload")
	cmd.Flags().BoolVar(&in.Publish, "publish", false, "Publish immediately instead of saving a draft")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func newBlogPublishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a draft post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Blogs.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.BlogStatusPill(p.Status), formatter.Bold(p.Title))
			return nil
		},
	}
}

func newBlogDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("Delete post %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Blogs.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newBlogUploadCmd(app *App) *cobra.Command {
	var postID string

	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a cover image, optionally attaching it to a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.interactive(), "Uploading...")
			url, err := app.Blogs.UploadCover(cmd.Context(), args[0])
			stop()
			if err != nil {
				return err
			}

			if postID != "" {
				p, err := app.Blogs.Get(cmd.Context(), postID)
				if err != nil {
					return err
				}
				p.CoverURL = url
				if _, err := app.Blogs.Update(cmd.Context(), p); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&postID, "post", "", "Set the uploaded image as this post's cover")

	return cmd
}
