package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagasta/addressbook/internal/config"
	"github.com/bagasta/addressbook/internal/model"
	"github.com/bagasta/addressbook/internal/utils"
)

type memUsers struct {
	users map[string]*model.User // pin -> user
	seq   int
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*model.User)}
}

func (m *memUsers) CreateUser(pin string) (*model.User, error) {
	m.seq++
	u := &model.User{
		ID:        "user-" + pin,
		PIN:       pin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.users[pin] = u
	return u, nil
}

func (m *memUsers) GetUserByPIN(pin string) (*model.User, error) {
	return m.users[pin], nil
}

func (m *memUsers) UpdateLastLogin(userID string) error {
	for _, u := range m.users {
		if u.ID == userID {
			now := time.Now()
			u.LastLogin = &now
		}
	}
	return nil
}

func testAuthService() (*AuthService, *memUsers) {
	users := newMemUsers()
	return NewAuthService(users, &config.Config{JWTSecret: "test-secret"}), users
}

func TestGeneratePINCreatesAccount(t *testing.T) {
	svc, users := testAuthService()

	user, err := svc.GeneratePIN()
	require.NoError(t, err)
	assert.Len(t, user.PIN, 6)
	assert.Len(t, users.users, 1)
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, users := testAuthService()

	user, err := svc.GeneratePIN()
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(user.PIN)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	userID, err := utils.ParseUserIDFromToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	assert.NotNil(t, users.users[user.PIN].LastLogin)
}

func TestLoginRejectsUnknownPIN(t *testing.T) {
	svc, _ := testAuthService()

	_, _, err := svc.Login("NOPE99")
	assert.EqualError(t, err, "invalid credentials")
}
