// Package tui is the interactive terminal front end: a browsable contact
// list with a detail pane, driven entirely through the presenter layer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bagasta/addressbook/internal/model"
	"github.com/bagasta/addressbook/internal/presenter"
)

type mode int

const (
	modeList mode = iota
	modeDetail
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	detailStyle = lipgloss.NewStyle().Padding(1, 2)
)

type contactItem struct {
	contact model.Contact
}

func (i contactItem) Title() string { return i.contact.Name.Full() }

func (i contactItem) Description() string {
	if len(i.contact.Phones) == 0 {
		return "no phone"
	}
	p := i.contact.Phones[0]
	return fmt.Sprintf("%s (%s)", p.Number, p.Type)
}

func (i contactItem) FilterValue() string { return i.contact.Name.Full() }

// Model is the Bubble Tea model for the contact browser.
type Model struct {
	mode    mode
	list    list.Model
	detail  *model.Contact
	err     error
	loading bool

	listPresenter   *presenter.ContactListPresenter
	detailPresenter *presenter.ContactDetailPresenter
	bridge          *uiBridge
}

// NewModel wires the presenters to the bridge and prepares the list.
func NewModel(api presenter.ContactsAPI) *Model {
	bridge := &uiBridge{}

	lp := presenter.NewContactListPresenter(api)
	dp := presenter.NewContactDetailPresenter(api)

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Contacts"
	l.SetShowStatusBar(false)

	return &Model{
		mode:            modeList,
		list:            l,
		loading:         true,
		listPresenter:   lp,
		detailPresenter: dp,
		bridge:          bridge,
	}
}

// Bridge exposes the program hookup for Run.
func (m *Model) Bridge(p *tea.Program) { m.bridge.setProgram(p) }

func (m *Model) Init() tea.Cmd {
	m.listPresenter.Attach(m.bridge)
	m.listPresenter.Refresh()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case ContactsLoadedMsg:
		m.loading = false
		m.err = nil
		items := make([]list.Item, len(msg.Contacts))
		for i, c := range msg.Contacts {
			items[i] = contactItem{contact: c}
		}
		return m, m.list.SetItems(items)

	case ContactLoadedMsg:
		m.loading = false
		m.err = nil
		m.detail = msg.Contact
		return m, nil

	case ContactDeletedMsg:
		m.leaveDetail()
		m.listPresenter.Refresh()
		return m, nil

	case ErrMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.listPresenter.Detach()
		m.detailPresenter.Detach()
		return m, tea.Quit

	case "r":
		if m.mode == modeList {
			m.loading = true
			m.listPresenter.Refresh()
			return m, nil
		}

	case "enter":
		if m.mode == modeList {
			if item, ok := m.list.SelectedItem().(contactItem); ok {
				m.enterDetail(item.contact.ID)
			}
			return m, nil
		}

	case "esc", "backspace":
		if m.mode == modeDetail {
			m.leaveDetail()
			return m, nil
		}

	case "x":
		if m.mode == modeDetail && m.detail != nil {
			m.detailPresenter.Delete(m.detail.ID)
			return m, nil
		}
	}

	if m.mode == modeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) enterDetail(id int64) {
	m.mode = modeDetail
	m.detail = nil
	m.loading = true
	m.detailPresenter.Attach(m.bridge)
	m.detailPresenter.Load(id)
}

// leaveDetail cancels any in-flight detail fetch via Detach.
func (m *Model) leaveDetail() {
	m.detailPresenter.Detach()
	m.mode = modeList
	m.detail = nil
	m.loading = false
}

func (m *Model) View() string {
	if m.mode == modeDetail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(m.list.View())
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()))
	}
	b.WriteString("\n" + helpStyle.Render("enter: open • r: refresh • q: quit"))
	return b.String()
}

func (m *Model) detailView() string {
	var b strings.Builder

	if m.loading {
		b.WriteString("Loading…\n")
	} else if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.detail != nil {
		c := m.detail
		b.WriteString(titleStyle.Render(c.Name.Full()) + "\n\n")
		for _, p := range c.Phones {
			b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(string(p.Type)+":"), p.Number))
		}
		for _, a := range c.Addresses {
			line := a.Street
			if a.City != "" {
				line += ", " + a.City
			}
			if a.State != "" {
				line += ", " + a.State
			}
			if a.Zip != "" {
				line += " " + a.Zip
			}
			b.WriteString(labelStyle.Render("address:") + " " + line + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("esc: back • x: delete • q: quit"))
	return detailStyle.Render(b.String())
}

// Run starts the interactive browser and blocks until the user quits.
func Run(api presenter.ContactsAPI) error {
	m := NewModel(api)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Bridge(p)
	_, err := p.Run()
	return err
}
