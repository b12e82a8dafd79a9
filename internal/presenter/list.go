package presenter

import "github.com/bagasta/addressbook/internal/model"

// ContactListView renders the contact list screen.
type ContactListView interface {
	SetContacts(contacts []model.Contact)
	ShowError(err error)
}

type ContactListPresenter struct {
	BasePresenter[ContactListView]
	api ContactsAPI
}

func NewContactListPresenter(api ContactsAPI) *ContactListPresenter {
	return &ContactListPresenter{api: api}
}

// Refresh fetches the full contact list and pushes it to the view.
func (p *ContactListPresenter) Refresh() {
	ctx, gen, ok := p.scope()
	if !ok {
		return
	}

	go func() {
		contacts, err := p.api.GetContacts(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.deliver(gen, func(v ContactListView) { v.ShowError(err) })
			return
		}
		p.deliver(gen, func(v ContactListView) { v.SetContacts(contacts) })
	}()
}
