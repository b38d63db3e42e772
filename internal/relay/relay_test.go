package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/internal/platform/mailer"
	redisrepo "github.com/diagnosis/lighthouse-point/internal/repo/redis"
	"github.com/diagnosis/lighthouse-point/pkg/auth"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/events"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock mailer for testing
type mockMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failOn  string // audience subject prefix that fails
	failErr error
}

func (m *mockMailer) Provider() string { return "mock" }

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && strings.HasPrefix(msg.Subject, m.failOn) {
		return "", m.failErr
	}
	m.sent = append(m.sent, msg)
	return "msg-" + msg.To.Email, nil
}

func (m *mockMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

func testOptions() Options {
	return OptionsFromConfig(config.EmailConfig{
		FromName:   "Lighthouse Point Hotel",
		FromEmail:  "reservations@lighthousepointhotel.com",
		StaffEmail: "reservations@lighthousepointhotel.com",
		StaffFrom:  "noreply@lighthousepointhotel.com",
		HotelPhone: "(954) 555-0123",
	})
}

func validBody() map[string]any {
	return map[string]any{
		"firstName":       "Maria",
		"lastName":        "Lopez",
		"email":           "maria@example.com",
		"phone":           "(954) 555-0100",
		"checkIn":         "2025-06-01",
		"checkOut":        "2025-06-04",
		"room":            "Harbor View Room",
		"adults":          2,
		"children":        1,
		"specialRequests": "<b>Late</b> arrival",
		"reference":       "LPH-482913",
	}
}

func setupTestServer(t *testing.T, m *mockMailer, opts MountOptions) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(NewService(m, testOptions())).Mount(r, opts)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body any, headers map[string]string) (*http.Response, notify.Response) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out notify.Response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestNotify_SendsGuestAndStaffEmails(t *testing.T) {
	m := &mockMailer{}
	srv := setupTestServer(t, m, MountOptions{})

	resp, out := post(t, srv.URL+NotifyPath, validBody(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, notify.Response{Success: true, Message: "Emails sent"}, out)

	sent := m.messages()
	require.Len(t, sent, 2)

	guest := sent[0]
	assert.Equal(t, GuestSubject, guest.Subject)
	assert.Equal(t, "maria@example.com", guest.To.Email)
	assert.Equal(t, "reservations@lighthousepointhotel.com", guest.From.Email)
	assert.Contains(t, guest.HTML, "Thank You, Maria!")
	assert.Contains(t, guest.HTML, "2 Adults, 1 Children")
	assert.Contains(t, guest.HTML, `href="tel:&#43;19545550123"`)
	assert.Contains(t, guest.HTML, "&lt;b&gt;Late&lt;/b&gt; arrival", "guest text is escaped")
	assert.NotContains(t, guest.HTML, "<b>Late</b>")
	assert.Contains(t, guest.Text, "Reference: LPH-482913")

	staff := sent[1]
	assert.Equal(t, "New Booking Inquiry: Maria Lopez — Harbor View Room", staff.Subject)
	assert.Equal(t, "reservations@lighthousepointhotel.com", staff.To.Email)
	assert.Equal(t, "noreply@lighthousepointhotel.com", staff.From.Email)
	assert.Equal(t, "maria@example.com", staff.ReplyTo)
	assert.Contains(t, staff.HTML, "2 Adults, 1 Children")
}

func TestNotify_GuestsLineWithoutChildren(t *testing.T) {
	m := &mockMailer{}
	srv := setupTestServer(t, m, MountOptions{})

	body := validBody()
	body["children"] = 0
	delete(body, "specialRequests")
	resp, _ := post(t, srv.URL+NotifyPath, body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sent := m.messages()
	assert.Contains(t, sent[0].HTML, "2 Adults</p>")
	assert.NotContains(t, sent[0].HTML, "Special Requests")
	assert.Contains(t, sent[1].HTML, ">None<")
}

func TestNotify_MethodNotAllowed(t *testing.T) {
	srv := setupTestServer(t, &mockMailer{}, MountOptions{Secret: "secret"})

	resp, err := http.Get(srv.URL + NotifyPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
}

func TestNotify_BadRequests(t *testing.T) {
	m := &mockMailer{}
	srv := setupTestServer(t, m, MountOptions{})

	missing := validBody()
	delete(missing, "email")
	tooMany := validBody()
	tooMany["adults"] = 9
	badDate := validBody()
	badDate["checkIn"] = "June 1st"

	for name, body := range map[string]any{
		"not json":      "{nope",
		"missing email": missing,
		"adults":        tooMany,
		"date format":   badDate,
	} {
		t.Run(name, func(t *testing.T) {
			resp, out := post(t, srv.URL+NotifyPath, body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, out.Success)
			assert.NotEmpty(t, out.Error)
		})
	}
	assert.Empty(t, m.messages())
}

func TestNotify_MailerFailure(t *testing.T) {
	m := &mockMailer{failOn: "New Booking Inquiry", failErr: errors.New("smtp: 421 try later")}
	srv := setupTestServer(t, m, MountOptions{})

	resp, out := post(t, srv.URL+NotifyPath, validBody(), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, notify.Response{Success: false, Error: "Failed to send email"}, out)
}

func TestNotify_RequiresServiceToken(t *testing.T) {
	srv := setupTestServer(t, &mockMailer{}, MountOptions{Secret: "secret"})

	resp, _ := post(t, srv.URL+NotifyPath, validBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := auth.NewRelayToken("secret", time.Minute)
	require.NoError(t, err)
	resp, out := post(t, srv.URL+NotifyPath, validBody(), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
}

func TestNotify_IdempotentRetry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	m := &mockMailer{}
	srv := setupTestServer(t, m, MountOptions{
		Idempotency:    redisrepo.NewIdempotencyStore(client),
		IdempotencyTTL: time.Hour,
	})

	headers := map[string]string{"Idempotency-Key": "LPH-482913"}
	for i := 0; i < 3; i++ {
		resp, out := post(t, srv.URL+NotifyPath, validBody(), headers)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, out.Success)
	}
	assert.Len(t, m.messages(), 2, "emails sent once")
}

func TestNotify_SameKeyDifferentGuests(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	m := &mockMailer{}
	srv := setupTestServer(t, m, MountOptions{
		Idempotency:    redisrepo.NewIdempotencyStore(client),
		IdempotencyTTL: time.Hour,
	})

	headers := map[string]string{"Idempotency-Key": "LPH-555555"}
	first := validBody()
	first["reference"] = "LPH-555555"
	second := validBody()
	second["reference"] = "LPH-555555"
	second["firstName"] = "Ana"
	second["email"] = "other.guest@example.com"

	for _, body := range []map[string]any{first, second} {
		resp, out := post(t, srv.URL+NotifyPath, body, headers)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, out.Success)
		assert.Empty(t, resp.Header.Get("Idempotent-Replayed"))
	}

	sent := m.messages()
	require.Len(t, sent, 4, "both inquiries emailed")
	var recipients []string
	for _, msg := range sent {
		recipients = append(recipients, msg.To.Email)
	}
	assert.Contains(t, recipients, "maria@example.com")
	assert.Contains(t, recipients, "other.guest@example.com")
}

type mockBus struct {
	subject string
	queue   string
	handler func(*events.Message)
}

func (b *mockBus) Subscribe(string, func(*events.Message)) error { return nil }
func (b *mockBus) Close() error                                  { return nil }
func (b *mockBus) QueueSubscribe(subject, queue string, handler func(*events.Message)) error {
	b.subject, b.queue, b.handler = subject, queue, handler
	return nil
}

func TestSubscriber_DeliversEvents(t *testing.T) {
	m := &mockMailer{}
	bus := &mockBus{}
	sub := NewSubscriber(bus, NewService(m, testOptions()), "booking-notify")
	require.NoError(t, sub.Start())
	assert.Equal(t, events.InquirySubmitted, bus.subject)
	assert.Equal(t, "booking-notify", bus.queue)

	payload, err := json.Marshal(validBody())
	require.NoError(t, err)
	data, err := json.Marshal(events.InquirySubmittedEvent{Reference: "LPH-482913", Payload: payload})
	require.NoError(t, err)

	bus.handler(&events.Message{Subject: events.InquirySubmitted, Data: data, ID: "1"})
	assert.Len(t, m.messages(), 2)

	bus.handler(&events.Message{Subject: events.InquirySubmitted, Data: []byte("garbage"), ID: "2"})
	bad, _ := json.Marshal(events.InquirySubmittedEvent{Reference: "x", Payload: json.RawMessage(`{"firstName":""}`)})
	bus.handler(&events.Message{Subject: events.InquirySubmitted, Data: bad, ID: "3"})
	assert.Len(t, m.messages(), 2)
}

func TestValidatePayload_CollectsAllProblems(t *testing.T) {
	_, err := ValidatePayload([]byte(`{"adults":0}`))
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.GreaterOrEqual(t, len(se.Problems), 8)
}
