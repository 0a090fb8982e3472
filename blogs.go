// server/blogs.go
package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/vinizap/portfolio/server/filesystem"
)

func newBlogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blogs",
		Short: "Scan the blog directory once and print the posts as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, catalog, err := setup()
			if err != nil {
				return err
			}

			res := newLoader(cfg, catalog).Load()
			if res.FallbackUsed() {
				log.Warn().Err(res.Cause).Str("root", cfg.BlogsRoot()).Msg("content store unreadable, printing fallback posts")
			} else {
				log.Info().Int("posts", len(res.Posts)).Str("root", cfg.BlogsRoot()).Msg("scanned content store")
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Posts)
		},
	}
}

func newPostCmd() *cobra.Command {
	var post filesystem.NewPost
	cmd := &cobra.Command{
		Use:   "new-post <folder>",
		Short: "Create a post folder with a text file the blog loader can read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, _, err := setup()
			if err != nil {
				return err
			}

			post.Folder = args[0]
			path, err := filesystem.CreatePost(cfg.BlogsRoot(), post)
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("post created")
			return nil
		},
	}
	cmd.Flags().StringVar(&post.Title, "title", "", "post title")
	cmd.Flags().StringVar(&post.Subtitle, "subtitle", "", "post subtitle")
	cmd.Flags().StringVar(&post.Body, "body", "", "post body")
	return cmd
}
