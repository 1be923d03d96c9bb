package mqtt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhail/dispatchd/auth"
	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/infra/logger"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                       { return true }
func (t *fakeToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *fakeToken) Error() error                     { return t.err }
func (t *fakeToken) Done() <-chan struct{}            { return make(chan struct{}) }

type fakeClient struct {
	published    map[string][]byte
	failures     int
	disconnected bool
}

func (c *fakeClient) IsConnected() bool       { return true }
func (c *fakeClient) Connect() paho.Token     { return &fakeToken{} }
func (c *fakeClient) Disconnect(quiesce uint) { c.disconnected = true }
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	if c.failures > 0 {
		c.failures--
		return &fakeToken{err: assert.AnError}
	}
	if c.published == nil {
		c.published = make(map[string][]byte)
	}
	c.published[topic] = payload.([]byte)
	return &fakeToken{}
}
func (c *fakeClient) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	return &fakeToken{}
}

func newFakePublisher(cli *fakeClient) *Publisher {
	return &Publisher{
		cli:        cli,
		prefix:     "hail",
		maxRetries: 2,
		backoff:    time.Millisecond,
		logger:     logger.NopLogger{},
	}
}

func TestPublishFramesEnvelope(t *testing.T) {
	cli := &fakeClient{}
	p := newFakePublisher(cli)

	b := model.Booking{ID: 1, UserID: "u1", Status: model.StatusPending, VehicleType: model.VehicleMedium}
	require.NoError(t, p.Publish(events.AllDrivers(), events.NewBooking{Booking: b}))

	payload, ok := cli.published["hail/drivers"]
	require.True(t, ok, "expected publish on the broadcast topic, got %v", cli.published)

	var env envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, "newBooking", env.Type)
	assert.NotEmpty(t, env.EventID)

	var ev events.NewBooking
	require.NoError(t, json.Unmarshal(env.Data, &ev))
	assert.Equal(t, int64(1), ev.Booking.ID)
}

func TestPublishUserTopic(t *testing.T) {
	cli := &fakeClient{}
	p := newFakePublisher(cli)

	require.NoError(t, p.Publish(events.User("u1"), events.StatusUpdate{
		BookingID: 1,
		Status:    "EnRoute",
		Location:  model.Location{Lat: 1, Lng: 2},
	}))
	_, ok := cli.published["hail/user/u1"]
	assert.True(t, ok, "expected publish on hail/user/u1, got %v", cli.published)
}

func TestPublishRetriesTransientFailure(t *testing.T) {
	cli := &fakeClient{failures: 2}
	p := newFakePublisher(cli)

	require.NoError(t, p.Publish(events.User("u1"), events.BookingAccepted{}))
	assert.Len(t, cli.published, 1)
}

func TestPublishExhaustsRetries(t *testing.T) {
	cli := &fakeClient{failures: 10}
	p := newFakePublisher(cli)

	err := p.Publish(events.User("u1"), events.BookingAccepted{})
	assert.Error(t, err)
}

func TestPublishReturnsImmediatelyAfterFinalAttempt(t *testing.T) {
	cli := &fakeClient{failures: 10}
	p := newFakePublisher(cli)
	p.maxRetries = 2
	p.backoff = 100 * time.Millisecond

	// Sleeps happen between attempts only: 100ms + 200ms. A sleep after the
	// last attempt would add another 400ms.
	start := time.Now()
	err := p.Publish(events.User("u1"), events.BookingAccepted{})
	elapsed := time.Since(start)
	assert.Error(t, err)
	assert.Less(t, elapsed, 600*time.Millisecond, "backoff slept after the final attempt")
}

func TestDisconnect(t *testing.T) {
	cli := &fakeClient{}
	p := newFakePublisher(cli)
	p.Disconnect()
	assert.True(t, cli.disconnected)
}

func TestNewClientOptionsOAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-42","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	cfg := Config{
		Broker:     "tcp://localhost:1883",
		ClientID:   "dispatchd",
		AuthMethod: "oauth2",
		OAuth:      auth.Conf{ClientID: "svc", ClientSecret: "secret", AuthURL: server.URL},
	}
	opts, err := NewClientOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "svc", opts.Username)
	assert.Equal(t, "tok-42", opts.Password)
}

func TestNewClientOptionsUsernamePassword(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)
}
