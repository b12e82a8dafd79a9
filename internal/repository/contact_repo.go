package repository

import (
	"database/sql"
	"errors"

	"github.com/bagasta/addressbook/internal/model"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) CreateContact(contact *model.Contact) (*model.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, addresses, phones)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRow(
		query,
		contact.Name.FirstName,
		contact.Name.LastName,
		contact.Addresses,
		contact.Phones,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return contact, nil
}

func (r *ContactRepository) GetContacts() ([]*model.Contact, error) {
	query := `
		SELECT id, first_name, last_name, addresses, phones, created_at, updated_at
		FROM contacts
		ORDER BY last_name, first_name, id`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		var c model.Contact
		err := rows.Scan(
			&c.ID,
			&c.Name.FirstName,
			&c.Name.LastName,
			&c.Addresses,
			&c.Phones,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}

	return contacts, rows.Err()
}

// GetContactByID returns (nil, nil) when no contact has the given id.
func (r *ContactRepository) GetContactByID(id int64) (*model.Contact, error) {
	var c model.Contact

	query := `
		SELECT id, first_name, last_name, addresses, phones, created_at, updated_at
		FROM contacts
		WHERE id = $1`

	err := r.DB.QueryRow(query, id).Scan(
		&c.ID,
		&c.Name.FirstName,
		&c.Name.LastName,
		&c.Addresses,
		&c.Phones,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &c, nil
}

// UpdateContact overwrites the stored contact and returns the refreshed row,
// or (nil, nil) when the id does not exist.
func (r *ContactRepository) UpdateContact(contact *model.Contact) (*model.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, addresses = $3, phones = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING created_at, updated_at`

	err := r.DB.QueryRow(
		query,
		contact.Name.FirstName,
		contact.Name.LastName,
		contact.Addresses,
		contact.Phones,
		contact.ID,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return contact, nil
}

// DeleteContact reports whether a row was actually removed.
func (r *ContactRepository) DeleteContact(id int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
