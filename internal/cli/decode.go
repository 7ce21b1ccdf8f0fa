package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/pkg/card"
	"github.com/matzehuels/blindcard/pkg/letter"
)

var errNotFound = errors.New("message not found")

// decodedLetter is the --json output of decode.
type decodedLetter struct {
	letter.Record
	Header string `json:"header"`
	Masked string `json:"masked"`
}

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the letter inside a share token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the letter as JSON")

	return cmd
}

func (c *CLI) runDecode(cmd *cobra.Command, token string, asJSON bool) error {
	rec, err := letter.Decode(token)
	if err != nil {
		c.Logger.Debug("decode failed", "error", err)
		return errNotFound
	}
	if rec.Message == "" {
		return errNotFound
	}

	cfg, err := card.ConfigFor(card.VariantPreview)
	if err != nil {
		return err
	}
	engine, err := card.NewEngine(cfg)
	if err != nil {
		return err
	}
	masked, _ := engine.Lines(rec.Message)
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(decodedLetter{
			Record: rec,
			Header: card.Header(rec, cfg.Texts),
			Masked: masked,
		})
	}

	printKeyValue(out, "header", card.Header(rec, cfg.Texts))
	printKeyValue(out, "from", rec.From)
	printKeyValue(out, "to", rec.To)
	if rec.Theme != "" {
		printKeyValue(out, "theme", rec.Theme)
	}
	printKeyValue(out, "masked", StyleMasked.Render(masked))
	fmt.Fprintln(out)
	fmt.Fprintln(out, rec.Message)
	return nil
}
