package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/openhail/dispatchd/auth"
	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/infra/logger"
)

// envelope is the wire frame for events pushed to riders and drivers.
type envelope struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// eventName returns the wire-level event type.
func eventName(ev any) string {
	switch ev.(type) {
	case events.NewBooking:
		return "newBooking"
	case events.BookingAccepted:
		return "bookingAccepted"
	case events.StatusUpdate:
		return "statusUpdate"
	default:
		return fmt.Sprintf("%T", ev)
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher implements the event channel boundary over an MQTT broker.
// Each target maps to one topic; riders and drivers subscribe to their own
// topic and the driver pool topic on the other side of the broker.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        map[string]byte
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewPublisher connects to the MQTT broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:     log,
	}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	switch cfg.AuthMethod {
	case "oauth2":
		// Broker authenticates with the client id and a bearer token as
		// the password, refreshed once at connect time.
		token, err := auth.NewClientCred(cfg.OAuth).GetToken()
		if err != nil {
			return nil, fmt.Errorf("oauth2 token: %w", err)
		}
		opts.SetUsername(cfg.OAuth.ClientID)
		opts.SetPassword(token)
	default:
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// Publish frames the event and pushes it to the target's topic, retrying
// with exponential backoff on transient broker errors.
func (p *Publisher) Publish(target events.Target, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope{
		EventID:   uuid.NewString(),
		Type:      eventName(event),
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	t := topic(p.prefix, target)
	qos := byte(0)
	if q, ok := p.qos["event"]; ok {
		qos = q
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(t, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published %s to %s", eventName(event), t)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return publishErr
}

// Disconnect gracefully closes the MQTT connection.
func (p *Publisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
