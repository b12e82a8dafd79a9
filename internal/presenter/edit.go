package presenter

import "github.com/bagasta/addressbook/internal/model"

// ContactEditView receives the outcome of a save. One callback each for
// success and failure; the front end decides how to render them.
type ContactEditView interface {
	SaveCompleted(contact *model.Contact)
	SaveFailed(err error)
}

type ContactEditPresenter struct {
	BasePresenter[ContactEditView]
	api ContactsAPI
}

func NewContactEditPresenter(api ContactsAPI) *ContactEditPresenter {
	return &ContactEditPresenter{api: api}
}

// Save persists the contact: records still carrying the sentinel id are
// created, everything else is updated.
func (p *ContactEditPresenter) Save(contact model.Contact) {
	ctx, gen, ok := p.scope()
	if !ok {
		return
	}

	go func() {
		var (
			saved *model.Contact
			err   error
		)
		if contact.IsNew() {
			saved, err = p.api.AddContact(ctx, contact)
		} else {
			saved, err = p.api.UpdateContact(ctx, contact)
		}

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.deliver(gen, func(v ContactEditView) { v.SaveFailed(err) })
			return
		}
		p.deliver(gen, func(v ContactEditView) { v.SaveCompleted(saved) })
	}()
}
