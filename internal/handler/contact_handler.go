package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bagasta/addressbook/internal/model"
	"github.com/bagasta/addressbook/internal/service"
	"github.com/bagasta/addressbook/internal/utils"
)

type ContactHandler struct {
	ContactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{ContactService: contactService}
}

// Register mounts the contact routes on r, which is expected to be the
// /api/contacts subrouter.
func (h *ContactHandler) Register(r *mux.Router) {
	r.HandleFunc("", h.ListContacts).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("", h.CreateContact).Methods(http.MethodPut)
	r.HandleFunc("", h.UpdateContact).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.GetContact).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/{id}", h.DeleteContact).Methods(http.MethodDelete)
}

// ListContacts handles GET /api/contacts.
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.ContactService.ListContacts()
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}

	utils.SuccessResponse(w, http.StatusOK, contacts, "Contacts retrieved successfully")
}

// GetContact handles GET /api/contacts/{id}.
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.ContactService.GetContact(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.ErrorResponse(w, http.StatusNotFound, "Contact not found")
			return
		}
		utils.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(w, http.StatusOK, contact, "Contact retrieved successfully")
}

// CreateContact handles PUT /api/contacts. The body must carry the sentinel
// id; anything else is rejected.
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var contact model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.ContactService.CreateContact(&contact)
	if err != nil {
		if errors.Is(err, service.ErrPersistedID) {
			utils.ErrorResponse(w, http.StatusBadRequest, "Contact already has an id; use update")
			return
		}
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(w, http.StatusCreated, created, "Contact created successfully")
}

// UpdateContact handles POST /api/contacts. The body must carry a persisted id.
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var contact model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.ContactService.UpdateContact(&contact)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.ErrorResponse(w, http.StatusNotFound, "Contact not found")
			return
		}
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(w, http.StatusOK, updated, "Contact updated successfully")
}

// DeleteContact handles DELETE /api/contacts/{id}.
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	if err := h.ContactService.DeleteContact(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.ErrorResponse(w, http.StatusNotFound, "Contact not found")
			return
		}
		utils.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(w, http.StatusOK, nil, "Contact deleted successfully")
}

func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid contact id")
		return 0, false
	}
	return id, true
}
