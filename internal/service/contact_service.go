package service

import (
	"errors"

	"github.com/bagasta/addressbook/internal/model"
	"github.com/bagasta/addressbook/internal/websocket"
)

// ErrNotFound is returned when an operation targets a contact id that does
// not exist.
var ErrNotFound = errors.New("contact not found")

// ErrPersistedID is returned when a create carries an id that is not the
// new-contact sentinel.
var ErrPersistedID = errors.New("contact already has an id")

// ContactStore is the persistence surface the service needs. Implemented by
// repository.ContactRepository; faked in tests.
type ContactStore interface {
	CreateContact(contact *model.Contact) (*model.Contact, error)
	GetContacts() ([]*model.Contact, error)
	GetContactByID(id int64) (*model.Contact, error)
	UpdateContact(contact *model.Contact) (*model.Contact, error)
	DeleteContact(id int64) (bool, error)
}

// ChangeNotifier receives contact mutations after they are committed.
// The websocket hub and the webhook service both implement it.
type ChangeNotifier interface {
	ContactChanged(eventType string, id int64, contact *model.Contact)
}

type ContactService struct {
	Store     ContactStore
	Notifiers []ChangeNotifier
}

func NewContactService(store ContactStore, notifiers ...ChangeNotifier) *ContactService {
	return &ContactService{
		Store:     store,
		Notifiers: notifiers,
	}
}

func (s *ContactService) ListContacts() ([]*model.Contact, error) {
	return s.Store.GetContacts()
}

func (s *ContactService) GetContact(id int64) (*model.Contact, error) {
	contact, err := s.Store.GetContactByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	return contact, nil
}

// CreateContact persists a new contact. The incoming record must carry the
// sentinel id; the stored id is assigned by the database.
func (s *ContactService) CreateContact(contact *model.Contact) (*model.Contact, error) {
	if !contact.IsNew() {
		return nil, ErrPersistedID
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}

	created, err := s.Store.CreateContact(contact)
	if err != nil {
		return nil, err
	}

	s.notify(websocket.EventContactCreated, created.ID, created)
	return created, nil
}

func (s *ContactService) UpdateContact(contact *model.Contact) (*model.Contact, error) {
	if contact.IsNew() {
		return nil, ErrNotFound
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.Store.UpdateContact(contact)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.notify(websocket.EventContactUpdated, updated.ID, updated)
	return updated, nil
}

func (s *ContactService) DeleteContact(id int64) error {
	deleted, err := s.Store.DeleteContact(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.notify(websocket.EventContactDeleted, id, nil)
	return nil
}

func (s *ContactService) notify(eventType string, id int64, contact *model.Contact) {
	for _, n := range s.Notifiers {
		n.ContactChanged(eventType, id, contact)
	}
}
