// Package presenter holds the UI-agnostic presentation layer. Each presenter
// drives one use case against the REST client and reports back through a view
// interface the front end implements. Work started while a view is attached
// is cancelled the moment the view detaches, and results that arrive for a
// previous attachment are dropped.
package presenter

import (
	"context"
	"sync"

	"github.com/bagasta/addressbook/internal/model"
)

// ContactsAPI is the slice of the REST client the presenters consume.
// Implemented by client.Client; faked in tests.
type ContactsAPI interface {
	GetContacts(ctx context.Context) ([]model.Contact, error)
	GetContact(ctx context.Context, id int64) (*model.Contact, error)
	AddContact(ctx context.Context, contact model.Contact) (*model.Contact, error)
	UpdateContact(ctx context.Context, contact model.Contact) (*model.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

// Dispatcher marshals view callbacks onto the front end's UI loop. The
// default runs them on the calling goroutine; a TUI installs one that posts
// messages into its event loop instead.
type Dispatcher func(fn func())

// BasePresenter owns the attach/detach lifecycle shared by every presenter.
// Each attachment gets its own context; Detach cancels it. Deliveries are
// tagged with the attachment generation so late results from a previous
// attachment never reach the current view.
type BasePresenter[V any] struct {
	mu       sync.Mutex
	view     V
	attached bool
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	dispatch Dispatcher
}

// Attach binds the view and opens a fresh execution scope. Attaching over an
// existing view detaches it first.
func (p *BasePresenter[V]) Attach(view V) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.view = view
	p.attached = true
	p.gen++
	p.ctx, p.cancel = context.WithCancel(context.Background())
}

// Detach unbinds the view and cancels all work started under the current
// attachment.
func (p *BasePresenter[V]) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	var zero V
	p.view = zero
	p.attached = false
}

// SetDispatcher installs the UI-loop hop. Call before Attach.
func (p *BasePresenter[V]) SetDispatcher(d Dispatcher) {
	p.mu.Lock()
	p.dispatch = d
	p.mu.Unlock()
}

// scope snapshots the current attachment. ok is false when no view is bound.
func (p *BasePresenter[V]) scope() (ctx context.Context, gen uint64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.attached {
		return nil, 0, false
	}
	return p.ctx, p.gen, true
}

// deliver invokes fn with the view iff the attachment that started the work
// is still the current one.
func (p *BasePresenter[V]) deliver(gen uint64, fn func(view V)) {
	p.mu.Lock()
	if !p.attached || p.gen != gen {
		p.mu.Unlock()
		return
	}
	view := p.view
	dispatch := p.dispatch
	p.mu.Unlock()

	if dispatch != nil {
		dispatch(func() { fn(view) })
		return
	}
	fn(view)
}
