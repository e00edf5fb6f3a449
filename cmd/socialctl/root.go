package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/isdelr/social-be/internal/client"
	"github.com/isdelr/social-be/internal/composer"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/isdelr/social-be/internal/nav"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	server string
	token  string
	lang   string
}

func (o *globalOptions) client() (*client.Client, error) {
	return client.New(o.server, o.token, nil)
}

func (o *globalOptions) printer() *message.Printer {
	return i18n.PrinterFor(localeToTag(o.lang))
}

// localeToTag turns a POSIX locale such as "vi_VN.UTF-8" into "vi-VN".
func localeToTag(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "socialctl",
		Short:        "Terminal client for the social server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", envOr("SOCIAL_SERVER", "http://localhost:8080"), "server base URL (env SOCIAL_SERVER)")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SOCIAL_TOKEN"), "session token (env SOCIAL_TOKEN)")
	root.PersistentFlags().StringVar(&opts.lang, "lang", os.Getenv("LANG"), "display language, e.g. vi or en_US.UTF-8")

	root.AddCommand(
		newSignInCmd(opts),
		newMeCmd(opts),
		newNavCmd(opts),
		newPostCmd(opts),
	)
	return root
}

func newSignInCmd(opts *globalOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Sign in and print a session token",
		Long: `Sign in with a username and password and print the session token.

Export it as SOCIAL_TOKEN to use it with the other commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			token, err := c.SignIn(cmd.Context(), username, password)
			if err != nil {
				if errors.Is(err, client.ErrUnauthorized) {
					return errors.New("invalid username or password")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("SOCIAL_PASSWORD"), "password (env SOCIAL_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newMeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Print the signed-in user's username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			username, err := c.Me(cmd.Context())
			switch {
			case errors.Is(err, client.ErrUnauthorized):
				return errors.New("not signed in; run socialctl sign-in")
			case errors.Is(err, client.ErrNotFound):
				return errors.New("signed in, but no user record exists for this identity")
			case err != nil:
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), username)
			return nil
		},
	}
}

func newNavCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation menu for the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			menu := nav.Build(cmd.Context(), c.SignedIn(), c)
			fmt.Fprint(cmd.OutOrStdout(), renderMenu(menu, opts.printer()))
			return nil
		},
	}
}

func newPostCmd(opts *globalOptions) *cobra.Command {
	var (
		content   string
		imageURL  string
		imageFile string
		emojis    []string
		gif       bool
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Compose and publish a post",
		Long: `Compose a post and publish it.

A post needs text or an image. --emoji may be repeated; each glyph is
appended to the text. --gif only reports that GIFs are not available yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			toasts := newToaster(cmd.ErrOrStderr(), opts.printer())
			comp := composer.New(c, toasts)

			comp.SetContent(content)
			for _, glyph := range emojis {
				comp.ToggleEmojiPicker()
				comp.SelectEmoji(glyph)
			}

			if imageFile != "" {
				comp.ToggleImageUpload()
				imageURL, err = c.UploadImage(cmd.Context(), imageFile)
				if err != nil {
					return fmt.Errorf("upload image: %w", err)
				}
			}
			if imageURL != "" {
				comp.SetImageURL(imageURL)
			}
			if gif {
				comp.SelectGIF()
			}

			err = comp.Submit(cmd.Context())
			switch {
			case errors.Is(err, composer.ErrEmptyDraft):
				return errors.New("nothing to post: give --content, --emoji or an image")
			case errors.Is(err, client.ErrUnauthorized):
				return errors.New("not signed in; run socialctl sign-in")
			case err != nil:
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&content, "content", "c", "", "post text")
	cmd.Flags().StringVar(&imageURL, "image", "", "URL of an already uploaded image")
	cmd.Flags().StringVar(&imageFile, "image-file", "", "local image to upload and attach")
	cmd.Flags().StringArrayVar(&emojis, "emoji", nil, "emoji to append to the text")
	cmd.Flags().BoolVar(&gif, "gif", false, "open the GIF picker")
	cmd.MarkFlagsMutuallyExclusive("image", "image-file")
	return cmd
}
