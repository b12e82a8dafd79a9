package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagasta/addressbook/internal/model"
)

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{Hub: hub, Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- a
	hub.Register <- b

	contact := &model.Contact{ID: 7, Name: model.Name{FirstName: "Ada"}}
	hub.ContactChanged(EventContactCreated, 7, contact)

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, EventContactCreated, msg.Type)
			assert.Equal(t, int64(7), msg.ContactID)
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestUnregisteredClientStopsReceiving(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- c
	hub.Unregister <- c

	// The send channel is closed on unregister.
	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	hub.ContactChanged(EventContactDeleted, 3, nil)
}

func TestHandlerEnforcesAllowedOrigins(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(Handler(hub, []string{"http://app.local"}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://evil.local"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://app.local"}})
	require.NoError(t, err)
	conn.Close()
}

func TestDeletedEventCarriesOnlyID(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- c

	hub.ContactChanged(EventContactDeleted, 11, nil)

	select {
	case raw := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventContactDeleted, msg.Type)
		assert.Equal(t, int64(11), msg.ContactID)
		assert.Nil(t, msg.Data)
	case <-time.After(time.Second):
		t.Fatal("client did not receive broadcast")
	}
}
