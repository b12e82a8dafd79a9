package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagasta/addressbook/internal/model"
)

func newTestService(t *testing.T, handler http.Handler) (*WebhookService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	svc := NewWebhookService(srv.URL)
	svc.backoff = time.Millisecond
	return svc, srv
}

func TestSendDeliversPayload(t *testing.T) {
	var got WebhookPayload
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("accepted"))
	}))

	body, err := svc.send(WebhookPayload{
		Event:     "contact.updated",
		ContactID: 7,
		Contact:   &model.Contact{ID: 7, Name: model.Name{FirstName: "Ada"}},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", body)
	assert.Equal(t, "contact.updated", got.Event)
	assert.Equal(t, int64(7), got.ContactID)
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	var calls int32
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))

	body, err := svc.send(WebhookPayload{Event: "contact.created", ContactID: 1})
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSendGivesUpAfterThreeTries(t *testing.T) {
	var calls int32
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := svc.send(WebhookPayload{Event: "contact.deleted", ContactID: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestContactChangedWithoutURLIsNoop(t *testing.T) {
	svc := NewWebhookService("")
	// Must not panic or try to dial anything.
	svc.ContactChanged("contact.created", 1, &model.Contact{ID: 1})
}
