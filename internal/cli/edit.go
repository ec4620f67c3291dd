package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/snapshot"
	"github.com/matzehuels/mindmap/pkg/surface"
)

func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <map>",
		Short: "Edit a map interactively in the terminal",
		Long: `Edit a map interactively.

Keys:
  ↑/↓ k/j   move the selection
  a, enter  append a child with custom text
  c         click: append "new node" below the selection
  s         save
  y         copy the tree JSON to the clipboard
  q         save and quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, ref string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	m, src, err := c.loadMap(ctx, ref)
	if err != nil {
		return err
	}
	defer src.Close()

	sf := surface.Attach(m, cfg.Layout.Width, cfg.Layout.Height, cfg.Geometry()).WithContext(ctx)
	model := newEditModel(sf, src.Name(), func(m *mindmap.Map) error { return src.Save(ctx, m) })

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if em, ok := final.(editModel); ok && em.err != nil {
		return em.err
	}
	return nil
}

// =============================================================================
// editModel - Interactive map editor
// =============================================================================

var (
	editHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editStatusStyle = lipgloss.NewStyle().Foreground(colorGreen)
	editErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// editModel is the bubbletea model for the map editor.
type editModel struct {
	sf     *surface.Surface
	title  string
	input  textinput.Model
	adding bool
	dirty  bool
	status string
	err    error

	save      func(*mindmap.Map) error
	clipboard func(string) error
}

func newEditModel(sf *surface.Surface, title string, save func(*mindmap.Map) error) editModel {
	in := textinput.New()
	in.Placeholder = "node text"
	in.CharLimit = errors.MaxTextLength
	in.Prompt = "› "
	return editModel{
		sf:        sf,
		title:     title,
		input:     in,
		save:      save,
		clipboard: clipboard.WriteAll,
	}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.adding {
		return m.updateInput(key)
	}

	m.status = ""
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		if m.dirty {
			m.persist()
		}
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "a", "enter":
		m.adding = true
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	case "c":
		cur, ok := m.sf.Map().Current()
		if !ok {
			break
		}
		n, err := m.sf.Click(cur.ID)
		if err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = true
		m.status = fmt.Sprintf("added #%s", n.ID)
	case "s":
		m.persist()
	case "y":
		data, err := snapshot.MarshalTreeIndent(m.sf.Map())
		if err == nil {
			err = m.clipboard(string(data))
		}
		if err != nil {
			m.status = "copy failed: " + err.Error()
			break
		}
		m.status = "copied JSON to clipboard"
	}
	return m, nil
}

func (m editModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.adding = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		n, err := m.sf.Append(m.input.Value())
		if err != nil {
			m.status = errors.UserMessage(err)
			return m, nil
		}
		m.adding = false
		m.input.Blur()
		m.dirty = true
		m.status = fmt.Sprintf("added #%s", n.ID)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// move shifts the selection by delta in pre-order.
func (m *editModel) move(delta int) {
	mm := m.sf.Map()
	nodes := mm.Nodes()
	if len(nodes) == 0 {
		return
	}
	i := 0
	if cur, ok := mm.Current(); ok {
		for j, n := range nodes {
			if n == cur {
				i = j
				break
			}
		}
	}
	i = min(max(i+delta, 0), len(nodes)-1)
	if err := m.sf.Select(nodes[i].ID); err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = true
}

func (m *editModel) persist() {
	if err := m.save(m.sf.Map()); err != nil {
		m.err = err
		m.status = "save failed: " + err.Error()
		return
	}
	m.err = nil
	m.dirty = false
	m.status = "saved"
}

func (m editModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(renderTree(m.sf.Map()))
	b.WriteString("\n\n")

	if cur, ok := m.sf.Map().Current(); ok {
		if box, ok := m.sf.Layout().Box(cur.ID); ok {
			b.WriteString(StyleDim.Render(fmt.Sprintf("#%s at (%.0f, %.0f)", cur.ID, box.X, box.Y)))
			b.WriteString("\n")
		}
	}

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(editHelpStyle.Render("enter append  esc cancel"))
		return b.String()
	}

	if m.status != "" {
		style := editStatusStyle
		if m.err != nil {
			style = editErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(editHelpStyle.Render("↑/↓ select  a append  c click  s save  y copy  q quit"))
	return b.String()
}
