package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/internal/server"
	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/letter"
	"github.com/matzehuels/blindcard/pkg/pipeline"
)

// Compose styles
var (
	composeLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(6)
	composeFocusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Width(6)
	composeHelpStyle    = lipgloss.NewStyle().Foreground(colorDim)
	composeErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	composePreviewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 2)
)

// Focus order of the compose form.
const (
	focusFrom = iota
	focusTo
	focusMessage
	focusCount
)

// =============================================================================
// ComposeModel - Interactive letter editor
// =============================================================================

// ComposeModel is the bubbletea model for writing a letter with a live
// preview of what the card reveals.
type ComposeModel struct {
	engine  *card.Engine
	from    textinput.Model
	to      textinput.Model
	message textarea.Model
	focus   int
	err     string

	// Submitted is set when the user saved the letter.
	Submitted bool
	// Cancelled is set when the user quit without saving.
	Cancelled bool
}

// NewComposeModel creates a compose form laid out with engine.
func NewComposeModel(engine *card.Engine) ComposeModel {
	from := textinput.New()
	from.Placeholder = letter.Anonymous
	from.CharLimit = apperr.MaxNameLength
	from.Focus()

	to := textinput.New()
	to.Placeholder = "받는 사람"
	to.CharLimit = apperr.MaxNameLength

	message := textarea.New()
	message.Placeholder = "하고 싶은 말"
	message.CharLimit = apperr.MaxMessageLength
	message.ShowLineNumbers = false
	message.SetWidth(40)
	message.SetHeight(4)

	return ComposeModel{engine: engine, from: from, to: to, message: message}
}

// Record returns the letter as currently entered.
func (m ComposeModel) Record() letter.Record {
	return letter.Normalize(letter.Record{
		From:    strings.TrimSpace(m.from.Value()),
		To:      strings.TrimSpace(m.to.Value()),
		Message: m.message.Value(),
	})
}

func (m ComposeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ComposeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "tab":
			return m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab":
			return m.setFocus((m.focus + focusCount - 1) % focusCount)
		case "ctrl+s":
			rec := m.Record()
			if strings.TrimSpace(rec.Message) == "" {
				m.err = "message is required"
				return m, nil
			}
			if err := rec.Validate(); err != nil {
				m.err = apperr.UserMessage(err)
				return m, nil
			}
			m.Submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusFrom:
		m.from, cmd = m.from.Update(msg)
	case focusTo:
		m.to, cmd = m.to.Update(msg)
	case focusMessage:
		m.message, cmd = m.message.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.err = ""
	}
	return m, cmd
}

func (m ComposeModel) setFocus(focus int) (tea.Model, tea.Cmd) {
	m.focus = focus
	m.from.Blur()
	m.to.Blur()
	m.message.Blur()

	switch focus {
	case focusFrom:
		return m, m.from.Focus()
	case focusTo:
		return m, m.to.Focus()
	default:
		return m, m.message.Focus()
	}
}

func (m ComposeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Compose a blind letter"))
	b.WriteString("\n\n")
	b.WriteString(m.label("from", focusFrom) + m.from.View() + "\n")
	b.WriteString(m.label("to", focusTo) + m.to.View() + "\n\n")
	b.WriteString(m.label("message", focusMessage) + "\n")
	b.WriteString(m.message.View())
	b.WriteString("\n\n")

	rec := m.Record()
	_, lines := m.engine.Lines(rec.Message)
	preview := StyleValue.Render(card.Header(rec, m.engine.Config().Texts)) + "\n\n" +
		StyleMasked.Render(strings.Join(lines, "\n"))
	b.WriteString(composePreviewStyle.Render(preview))
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(composeErrorStyle.Render(iconError+" "+m.err) + "\n")
	}
	b.WriteString(composeHelpStyle.Render("tab next field  ctrl+s save  esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m ComposeModel) label(name string, focus int) string {
	if m.focus == focus {
		return composeFocusStyle.Render(name)
	}
	return composeLabelStyle.Render(name)
}

// =============================================================================
// Command
// =============================================================================

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output  string // PNG path, empty to skip the image
	variant string
	theme   string
	baseURL string
}

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	opts := composeOpts{
		output:  "card.png",
		variant: string(card.VariantInteractive),
	}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Write a letter interactively and save its card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "PNG output file (empty to skip)")
	cmd.Flags().StringVar(&opts.variant, "variant", opts.variant, "card variant: preview, interactive")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "card theme: default, night, rose, mint")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "origin for share links (default from config)")

	return cmd
}

func (c *CLI) runCompose(cmd *cobra.Command, opts composeOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	variant := card.Variant(opts.variant)
	engine, err := runner.Engine(variant)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(NewComposeModel(engine), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	model := final.(ComposeModel)
	out := cmd.OutOrStdout()
	if !model.Submitted {
		printInfo(out, "Cancelled")
		return nil
	}

	rec := model.Record()
	rec.Theme = opts.theme
	token := letter.Encode(rec)

	if opts.output != "" {
		res, err := c.execute(ctx, cmd, runner, pipeline.Options{
			Token:   token,
			Variant: variant,
			Format:  pipeline.FormatPNG,
			Backend: pipeline.BackendCanvas,
			Scale:   cfg.Render.Scale,
			Logger:  c.Logger,
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, res.Artifact, 0o644); err != nil {
			return err
		}
		printSuccess(out, "Saved card")
		printFile(out, opts.output)
	}

	base := opts.baseURL
	if base == "" {
		base = cfg.HTTP.PublicBaseURL
	}
	base = strings.TrimSuffix(base, "/")
	printKeyValue(out, "token", token)
	printLink(out, "url", letter.ShareURL(base+server.SharePath, token))
	return nil
}
