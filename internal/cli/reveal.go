package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/pkg/card"
	"github.com/matzehuels/blindcard/pkg/reveal"
	"github.com/matzehuels/blindcard/pkg/wrap"
)

// revealCommand creates the reveal command.
func (c *CLI) revealCommand() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "reveal <message>",
		Short: "Show which characters of a message stay visible",
		Long: `Reveal prints the masked form of a message and the lines it wraps to on
the card. The visible characters depend only on the message text, so the
output matches every card rendered for it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReveal(cmd, strings.Join(args, " "), card.Variant(variant))
		},
	}

	cmd.Flags().StringVar(&variant, "variant", string(card.VariantPreview), "card variant: preview, interactive")

	return cmd
}

func (c *CLI) runReveal(cmd *cobra.Command, message string, variant card.Variant) error {
	cfg, err := card.ConfigFor(variant)
	if err != nil {
		return err
	}
	engine, err := card.NewEngine(cfg)
	if err != nil {
		return err
	}
	masked, lines := engine.Lines(message)
	out := cmd.OutOrStdout()

	indices := reveal.Indices(message)
	printKeyValue(out, "masked", StyleMasked.Render(masked))
	printKeyValue(out, "visible", fmt.Sprintf("%d of %d characters", len(indices), utf8.RuneCountInString(message)))
	printKeyValue(out, "seed", strconv.FormatUint(uint64(reveal.Seed(message)), 10))

	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = []string{strconv.Itoa(i + 1), line, strconv.Itoa(utf8.RuneCountInString(line))}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "line", "chars").
		Rows(rows...)
	fmt.Fprintln(out, t.Render())

	if wrap.Truncated(masked, cfg.MaxChars, cfg.MaxLines) {
		printWarning(out, "message is longer than %d lines; the card drops the rest", cfg.MaxLines)
	}
	return nil
}
