package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/internal/server"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/letter"
)

// encodeOpts holds the command-line flags for the encode command.
type encodeOpts struct {
	from    string
	to      string
	message string
	theme   string
	baseURL string // share page origin; config http.public_base_url when empty
	quiet   bool   // print only the token
}

// encodeCommand creates the encode command.
func (c *CLI) encodeCommand() *cobra.Command {
	var opts encodeOpts

	cmd := &cobra.Command{
		Use:   "encode [message]",
		Short: "Encode a letter into a share token and URL",
		Example: `  blindcard encode --from 지민 --to 서연 "생일 축하해"
  blindcard encode -m "고마워" --theme night -q`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.message == "" {
				opts.message = strings.Join(args, " ")
			}
			return c.runEncode(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "sender name (empty or "+letter.Anonymous+" hides it)")
	cmd.Flags().StringVar(&opts.to, "to", "", "recipient name")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "message text (defaults to the arguments)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "card theme: default, night, rose, mint")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "origin for share links (default from config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the token")

	return cmd
}

func (c *CLI) runEncode(cmd *cobra.Command, opts encodeOpts) error {
	rec := letter.Normalize(letter.Record{
		From:    opts.from,
		To:      opts.to,
		Message: opts.message,
		Theme:   opts.theme,
	})
	if strings.TrimSpace(rec.Message) == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "message is required")
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	token := letter.Encode(rec)
	out := cmd.OutOrStdout()
	if opts.quiet {
		_, err := out.Write([]byte(token + "\n"))
		return err
	}

	base := opts.baseURL
	if base == "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		base = cfg.HTTP.PublicBaseURL
	}
	base = strings.TrimSuffix(base, "/")

	printKeyValue(out, "token", token)
	printLink(out, "url", letter.ShareURL(base+server.SharePath, token))
	printLink(out, "image", base+"/api/blind/og/"+token)
	return nil
}
