package presenter

import "github.com/bagasta/addressbook/internal/model"

// ContactDetailView renders a single contact.
type ContactDetailView interface {
	SetContact(contact *model.Contact)
	ContactDeleted(id int64)
	ShowError(err error)
}

type ContactDetailPresenter struct {
	BasePresenter[ContactDetailView]
	api ContactsAPI
}

func NewContactDetailPresenter(api ContactsAPI) *ContactDetailPresenter {
	return &ContactDetailPresenter{api: api}
}

// Load fetches one contact by id.
func (p *ContactDetailPresenter) Load(id int64) {
	ctx, gen, ok := p.scope()
	if !ok {
		return
	}

	go func() {
		contact, err := p.api.GetContact(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.deliver(gen, func(v ContactDetailView) { v.ShowError(err) })
			return
		}
		p.deliver(gen, func(v ContactDetailView) { v.SetContact(contact) })
	}()
}

// Delete removes the contact and reports through ContactDeleted.
func (p *ContactDetailPresenter) Delete(id int64) {
	ctx, gen, ok := p.scope()
	if !ok {
		return
	}

	go func() {
		if err := p.api.DeleteContact(ctx, id); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.deliver(gen, func(v ContactDetailView) { v.ShowError(err) })
			return
		}
		p.deliver(gen, func(v ContactDetailView) { v.ContactDeleted(id) })
	}()
}
