package mqtt

import (
	"encoding/json"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/infra/logger"
)

// Registrar receives registration and disconnect events. Implemented by
// registry.Registry; the calls are one-way and return nothing.
type Registrar interface {
	RegisterUser(id string, h model.Handle)
	RegisterDriver(id string, h model.Handle)
	Disconnect(h model.Handle)
}

// presenceMessage is the wire format for registration events.
type presenceMessage struct {
	Role   string `json:"role"` // "user" or "driver"
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Event  string `json:"event"` // "register" or "disconnect"
}

// PresenceListener feeds registration events from the broker into the
// registry. Connection handles are minted by the connecting client and
// carried opaquely.
type PresenceListener struct {
	cli   pahoClient
	topic string
	reg   Registrar
	log   logger.Logger
}

// NewPresenceListener connects to the broker and subscribes to the presence
// topic.
func NewPresenceListener(cfg Config, reg Registrar) (*PresenceListener, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	l := &PresenceListener{
		topic: cfg.PresenceTopic,
		reg:   reg,
		log:   logger.New("presence_listener"),
	}
	qos := byte(0)
	if q, ok := cfg.QoS["presence"]; ok {
		qos = q
	}
	opts.OnConnect = func(c paho.Client) {
		if token := c.Subscribe(l.topic, qos, l.onPresence); token.Wait() && token.Error() != nil {
			l.log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		l.log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	l.cli = c
	return l, nil
}

func (l *PresenceListener) onPresence(_ paho.Client, msg paho.Message) {
	var m presenceMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		l.log.Errorf("invalid presence payload: %v", err)
		return
	}
	switch {
	case m.Event == "disconnect":
		l.reg.Disconnect(model.Handle(m.Handle))
		l.log.Infof("disconnected handle %s", m.Handle)
	case m.Role == "user":
		l.reg.RegisterUser(m.ID, model.Handle(m.Handle))
		l.log.Infof("user registered: %s", m.ID)
	case m.Role == "driver":
		l.reg.RegisterDriver(m.ID, model.Handle(m.Handle))
		l.log.Infof("driver registered: %s", m.ID)
	default:
		l.log.Warnf("presence message with unknown role %q", m.Role)
	}
}

// Disconnect gracefully closes the MQTT connection.
func (l *PresenceListener) Disconnect() {
	if l.cli != nil && l.cli.IsConnected() {
		l.cli.Disconnect(250)
	}
}
