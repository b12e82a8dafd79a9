package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewContactID is the identifier of a contact that has not been persisted yet.
// Edit flows compare against it to decide between create and update.
const NewContactID int64 = 0

type PhoneType string

const (
	PhoneTypeHome   PhoneType = "home"
	PhoneTypeWork   PhoneType = "work"
	PhoneTypeMobile PhoneType = "mobile"
	PhoneTypeOther  PhoneType = "other"
)

// Valid reports whether t is one of the known phone types.
func (t PhoneType) Valid() bool {
	switch t {
	case PhoneTypeHome, PhoneTypeWork, PhoneTypeMobile, PhoneTypeOther:
		return true
	}
	return false
}

type Name struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Full returns "First Last" with empty parts trimmed away.
func (n Name) Full() string {
	return strings.TrimSpace(strings.TrimSpace(n.FirstName) + " " + strings.TrimSpace(n.LastName))
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

type Phone struct {
	Number string    `json:"number"`
	Type   PhoneType `json:"type"`
}

// AddressList and PhoneList are stored as JSONB columns, so they implement
// driver.Valuer and sql.Scanner.
type AddressList []Address

func (l AddressList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AddressList{})
	}
	return json.Marshal(l)
}

func (l *AddressList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

type PhoneList []Phone

func (l PhoneList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(PhoneList{})
	}
	return json.Marshal(l)
}

func (l *PhoneList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

type Contact struct {
	ID        int64       `json:"id"`
	Name      Name        `json:"name"`
	Addresses AddressList `json:"addresses"`
	Phones    PhoneList   `json:"phones"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsNew reports whether the contact still carries the sentinel identifier.
func (c *Contact) IsNew() bool {
	return c.ID == NewContactID
}

// Validate checks field presence: a contact needs at least one name part,
// every phone needs a number and a known type, every address a street or city.
func (c *Contact) Validate() error {
	if c.Name.Full() == "" {
		return errors.New("contact name is required")
	}
	for i, p := range c.Phones {
		if strings.TrimSpace(p.Number) == "" {
			return fmt.Errorf("phone %d: number is required", i)
		}
		if !p.Type.Valid() {
			return fmt.Errorf("phone %d: unknown type %q", i, string(p.Type))
		}
	}
	for i, a := range c.Addresses {
		if strings.TrimSpace(a.Street) == "" && strings.TrimSpace(a.City) == "" {
			return fmt.Errorf("address %d: street or city is required", i)
		}
	}
	return nil
}
