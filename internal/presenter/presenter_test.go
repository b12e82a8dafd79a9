package presenter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagasta/addressbook/internal/model"
)

// fakeAPI scripts responses and records which operations ran.
type fakeAPI struct {
	mu       sync.Mutex
	contacts []model.Contact
	contact  *model.Contact
	err      error

	block chan struct{} // when set, calls wait here or for ctx

	addCalls    int
	updateCalls int
	deleteCalls int
}

func (f *fakeAPI) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAPI) GetContacts(ctx context.Context) ([]model.Contact, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.contacts, f.err
}

func (f *fakeAPI) GetContact(ctx context.Context, id int64) (*model.Contact, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.contact, f.err
}

func (f *fakeAPI) AddContact(ctx context.Context, c model.Contact) (*model.Contact, error) {
	f.mu.Lock()
	f.addCalls++
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	c.ID = 1
	return &c, nil
}

func (f *fakeAPI) UpdateContact(ctx context.Context, c model.Contact) (*model.Contact, error) {
	f.mu.Lock()
	f.updateCalls++
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &c, nil
}

func (f *fakeAPI) DeleteContact(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.deleteCalls++
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.err
}

// recordingListView captures callbacks on channels so tests can wait.
type recordingListView struct {
	contacts chan []model.Contact
	errs     chan error
}

func newRecordingListView() *recordingListView {
	return &recordingListView{
		contacts: make(chan []model.Contact, 4),
		errs:     make(chan error, 4),
	}
}

func (v *recordingListView) SetContacts(contacts []model.Contact) { v.contacts <- contacts }
func (v *recordingListView) ShowError(err error)                  { v.errs <- err }

func TestListPresenterRefresh(t *testing.T) {
	api := &fakeAPI{contacts: []model.Contact{
		{ID: 1, Name: model.Name{FirstName: "Ada", LastName: "Lovelace"}},
		{ID: 2, Name: model.Name{FirstName: "Alan", LastName: "Turing"}},
	}}
	p := NewContactListPresenter(api)
	view := newRecordingListView()

	p.Attach(view)
	defer p.Detach()
	p.Refresh()

	select {
	case got := <-view.contacts:
		require.Len(t, got, 2)
		assert.Equal(t, "Ada Lovelace", got[0].Name.Full())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for contacts")
	}
}

func TestListPresenterError(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	p := NewContactListPresenter(api)
	view := newRecordingListView()

	p.Attach(view)
	defer p.Detach()
	p.Refresh()

	select {
	case err := <-view.errs:
		assert.EqualError(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestRefreshWithoutViewIsNoop(t *testing.T) {
	api := &fakeAPI{}
	p := NewContactListPresenter(api)

	// Never attached: must not panic, must not call the API in a way that
	// reaches a view.
	p.Refresh()
}

func TestDetachCancelsInflightWork(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{})}
	p := NewContactListPresenter(api)
	view := newRecordingListView()

	p.Attach(view)
	p.Refresh()
	p.Detach() // cancels the scope while GetContacts is blocked

	select {
	case <-view.contacts:
		t.Fatal("detached view received contacts")
	case <-view.errs:
		t.Fatal("detached view received an error")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLateResultDroppedAfterReattach(t *testing.T) {
	block := make(chan struct{})
	api := &fakeAPI{block: block, contacts: []model.Contact{{ID: 1, Name: model.Name{FirstName: "Ada"}}}}
	p := NewContactListPresenter(api)

	stale := newRecordingListView()
	p.Attach(stale)
	p.Refresh()

	// Re-attach a new view while the first fetch is still blocked. The first
	// fetch's scope is cancelled, so even unblocking it must deliver nothing.
	fresh := newRecordingListView()
	p.Attach(fresh)
	close(block)
	p.Refresh()

	select {
	case got := <-fresh.contacts:
		assert.Len(t, got, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fresh view")
	}

	select {
	case <-stale.contacts:
		t.Fatal("stale view received contacts after re-attach")
	case <-time.After(100 * time.Millisecond):
	}

	p.Detach()
}

type recordingEditView struct {
	saved chan *model.Contact
	errs  chan error
}

func newRecordingEditView() *recordingEditView {
	return &recordingEditView{
		saved: make(chan *model.Contact, 1),
		errs:  make(chan error, 1),
	}
}

func (v *recordingEditView) SaveCompleted(c *model.Contact) { v.saved <- c }
func (v *recordingEditView) SaveFailed(err error)           { v.errs <- err }

func TestEditPresenterCreatesWhenSentinel(t *testing.T) {
	api := &fakeAPI{}
	p := NewContactEditPresenter(api)
	view := newRecordingEditView()

	p.Attach(view)
	defer p.Detach()
	p.Save(model.Contact{ID: model.NewContactID, Name: model.Name{FirstName: "Ada"}})

	select {
	case saved := <-view.saved:
		assert.Equal(t, int64(1), saved.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for save")
	}
	assert.Equal(t, 1, api.addCalls)
	assert.Equal(t, 0, api.updateCalls)
}

func TestEditPresenterUpdatesWhenPersisted(t *testing.T) {
	api := &fakeAPI{}
	p := NewContactEditPresenter(api)
	view := newRecordingEditView()

	p.Attach(view)
	defer p.Detach()
	p.Save(model.Contact{ID: 42, Name: model.Name{FirstName: "Ada"}})

	select {
	case saved := <-view.saved:
		assert.Equal(t, int64(42), saved.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for save")
	}
	assert.Equal(t, 0, api.addCalls)
	assert.Equal(t, 1, api.updateCalls)
}

func TestEditPresenterReportsFailure(t *testing.T) {
	api := &fakeAPI{err: errors.New("server down")}
	p := NewContactEditPresenter(api)
	view := newRecordingEditView()

	p.Attach(view)
	defer p.Detach()
	p.Save(model.Contact{Name: model.Name{FirstName: "Ada"}})

	select {
	case err := <-view.errs:
		assert.EqualError(t, err, "server down")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for failure")
	}
}

type recordingDetailView struct {
	contact chan *model.Contact
	deleted chan int64
	errs    chan error
}

func newRecordingDetailView() *recordingDetailView {
	return &recordingDetailView{
		contact: make(chan *model.Contact, 1),
		deleted: make(chan int64, 1),
		errs:    make(chan error, 1),
	}
}

func (v *recordingDetailView) SetContact(c *model.Contact) { v.contact <- c }
func (v *recordingDetailView) ContactDeleted(id int64)     { v.deleted <- id }
func (v *recordingDetailView) ShowError(err error)         { v.errs <- err }

func TestDetailPresenterLoadAndDelete(t *testing.T) {
	api := &fakeAPI{contact: &model.Contact{ID: 3, Name: model.Name{FirstName: "Grace"}}}
	p := NewContactDetailPresenter(api)
	view := newRecordingDetailView()

	p.Attach(view)
	defer p.Detach()

	p.Load(3)
	select {
	case c := <-view.contact:
		require.NotNil(t, c)
		assert.Equal(t, int64(3), c.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for contact")
	}

	p.Delete(3)
	select {
	case id := <-view.deleted:
		assert.Equal(t, int64(3), id)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete")
	}
	assert.Equal(t, 1, api.deleteCalls)
}

func TestDispatcherReceivesCallbacks(t *testing.T) {
	api := &fakeAPI{contacts: []model.Contact{{ID: 1}}}
	p := NewContactListPresenter(api)
	view := newRecordingListView()

	dispatched := make(chan struct{}, 1)
	p.SetDispatcher(func(fn func()) {
		dispatched <- struct{}{}
		fn()
	})

	p.Attach(view)
	defer p.Detach()
	p.Refresh()

	select {
	case <-dispatched:
	case <-time.After(time.Second):
		t.Fatal("dispatcher was not used")
	}
	select {
	case <-view.contacts:
	case <-time.After(time.Second):
		t.Fatal("view callback never ran")
	}
}
