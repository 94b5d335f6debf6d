package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdevs17/health-sms-relay/internal/models"
	"github.com/smartdevs17/health-sms-relay/internal/relay"
)

// fakeStore is an in-test entry store with scriptable failures
type fakeStore struct {
	entries   []*models.Entry
	appends   []*models.Entry
	appendErr error
}

func (f *fakeStore) Connect() error                 { return nil }
func (f *fakeStore) Close() error                   { return nil }
func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) Append(ctx context.Context, entry *models.Entry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, entry)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeStore) LastEntries(ctx context.Context, n int) ([]*models.Entry, error) {
	entries := f.entries
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func (f *fakeStore) ShareableLink(ctx context.Context) (string, error) {
	return "https://docs.google.com/spreadsheets/d/abc123", nil
}

// recordingNotifier captures outbound messages
type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) Send(ctx context.Context, message string) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, message)
	return nil
}

func newTestServer(t *testing.T, store *fakeStore, notifier *recordingNotifier) *HTTPServer {
	t.Helper()

	messageRelay := relay.NewRelay(&relay.RelayConfig{
		Secret:         "test-secret",
		SummaryCount:   3,
		CheckinMessage: "How were your symptoms today? Rate urgency (1-10) and describe.",
	}, store, notifier, nil)

	srv, err := NewHTTPServer(&ServerConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}, messageRelay, nil)
	require.NoError(t, err)

	return srv
}

func doRequest(srv *HTTPServer, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestIndexEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &recordingNotifier{})

	resp := doRequest(srv, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Personal Health SMS Bot is running"}`, resp.Body.String())
}

func TestTriggerDailyCheckin(t *testing.T) {
	t.Run("wrong secret is unauthorized and sends nothing", func(t *testing.T) {
		notifier := &recordingNotifier{}
		srv := newTestServer(t, &fakeStore{}, notifier)

		resp := doRequest(srv, http.MethodGet, "/trigger-daily-checkin?secret=WRONG", "")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, resp.Body.String())
		assert.Empty(t, notifier.messages)
	})

	t.Run("missing secret is unauthorized", func(t *testing.T) {
		notifier := &recordingNotifier{}
		srv := newTestServer(t, &fakeStore{}, notifier)

		resp := doRequest(srv, http.MethodGet, "/trigger-daily-checkin", "")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Empty(t, notifier.messages)
	})

	t.Run("correct secret triggers the prompt", func(t *testing.T) {
		notifier := &recordingNotifier{}
		srv := newTestServer(t, &fakeStore{}, notifier)

		resp := doRequest(srv, http.MethodGet, "/trigger-daily-checkin?secret=test-secret", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "Triggered", resp.Body.String())
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain")

		require.Len(t, notifier.messages, 1)
		assert.Equal(t, "How were your symptoms today? Rate urgency (1-10) and describe.", notifier.messages[0])
	})

	t.Run("delivery failure is a 500", func(t *testing.T) {
		notifier := &recordingNotifier{err: errors.New("relay offline")}
		srv := newTestServer(t, &fakeStore{}, notifier)

		resp := doRequest(srv, http.MethodGet, "/trigger-daily-checkin?secret=test-secret", "")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.JSONEq(t, `{"error":"Failed to send SMS"}`, resp.Body.String())
	})
}

func TestAndroidWebhook(t *testing.T) {
	t.Run("data entry is logged", func(t *testing.T) {
		store := &fakeStore{}
		notifier := &recordingNotifier{}
		srv := newTestServer(t, store, notifier)

		resp := doRequest(srv, http.MethodPost, "/android-webhook",
			`{"sender":"+1234567890","body":"urgency 7 headache"}`)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"logged","urgency":7}`, resp.Body.String())

		require.Len(t, store.appends, 1)
		assert.Equal(t, 7, store.appends[0].Urgency)
		require.Len(t, notifier.messages, 1)
	})

	t.Run("missing body is invalid payload with no side effects", func(t *testing.T) {
		store := &fakeStore{}
		notifier := &recordingNotifier{}
		srv := newTestServer(t, store, notifier)

		resp := doRequest(srv, http.MethodPost, "/android-webhook", `{"sender":"+1234567890"}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"error":"Invalid payload"}`, resp.Body.String())
		assert.Empty(t, store.appends)
		assert.Empty(t, notifier.messages)
	})

	t.Run("missing sender is invalid payload", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{}, &recordingNotifier{})

		resp := doRequest(srv, http.MethodPost, "/android-webhook", `{"body":"urgency 7"}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"error":"Invalid payload"}`, resp.Body.String())
	})

	t.Run("malformed JSON is invalid payload", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{}, &recordingNotifier{})

		resp := doRequest(srv, http.MethodPost, "/android-webhook", `{not json`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"error":"Invalid payload"}`, resp.Body.String())
	})

	t.Run("append failure is surfaced", func(t *testing.T) {
		store := &fakeStore{appendErr: errors.New("sheet unavailable")}
		srv := newTestServer(t, store, &recordingNotifier{})

		resp := doRequest(srv, http.MethodPost, "/android-webhook",
			`{"sender":"+1234567890","body":"urgency 7"}`)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.JSONEq(t, `{"error":"Failed to log entry"}`, resp.Body.String())
	})

	t.Run("link request", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{}, &recordingNotifier{})

		resp := doRequest(srv, http.MethodPost, "/android-webhook",
			`{"sender":"+1234567890","body":"link 5"}`)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"link sent"}`, resp.Body.String())
	})

	t.Run("summary request", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{}, &recordingNotifier{})

		resp := doRequest(srv, http.MethodPost, "/android-webhook",
			`{"sender":"+1234567890","body":"summary"}`)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"summary sent"}`, resp.Body.String())
	})

	t.Run("no urgency found", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{}, &recordingNotifier{})

		resp := doRequest(srv, http.MethodPost, "/android-webhook",
			`{"sender":"+1234567890","body":"feeling fine"}`)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"no urgency found"}`, resp.Body.String())
	})
}
