package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bagasta/addressbook/internal/model"
)

// Messages bridging presenter callbacks into the Bubble Tea event loop.
type (
	ContactsLoadedMsg struct{ Contacts []model.Contact }
	ContactLoadedMsg  struct{ Contact *model.Contact }
	ContactDeletedMsg struct{ ID int64 }
	ErrMsg            struct{ Err error }
)

// uiBridge implements the presenter view interfaces by posting messages into
// the running program. Program.Send is safe from any goroutine, which is the
// "hop back to the UI thread" for this front end.
type uiBridge struct {
	mu      sync.Mutex
	program *tea.Program
}

func (b *uiBridge) setProgram(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

func (b *uiBridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (b *uiBridge) SetContacts(contacts []model.Contact) { b.send(ContactsLoadedMsg{Contacts: contacts}) }
func (b *uiBridge) SetContact(contact *model.Contact)    { b.send(ContactLoadedMsg{Contact: contact}) }
func (b *uiBridge) ContactDeleted(id int64)              { b.send(ContactDeletedMsg{ID: id}) }
func (b *uiBridge) ShowError(err error)                  { b.send(ErrMsg{Err: err}) }
