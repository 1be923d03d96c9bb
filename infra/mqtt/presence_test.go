package mqtt

import (
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/infra/logger"
)

type recordingRegistrar struct {
	users        map[string]model.Handle
	drivers      map[string]model.Handle
	disconnected []model.Handle
}

func newRecordingRegistrar() *recordingRegistrar {
	return &recordingRegistrar{
		users:   make(map[string]model.Handle),
		drivers: make(map[string]model.Handle),
	}
}

func (r *recordingRegistrar) RegisterUser(id string, h model.Handle)   { r.users[id] = h }
func (r *recordingRegistrar) RegisterDriver(id string, h model.Handle) { r.drivers[id] = h }
func (r *recordingRegistrar) Disconnect(h model.Handle)                { r.disconnected = append(r.disconnected, h) }

type fakeMessage struct {
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return "hail/presence/x" }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func newTestListener(reg Registrar) *PresenceListener {
	return &PresenceListener{reg: reg, topic: "hail/presence/+", log: logger.NopLogger{}}
}

func TestPresenceRegisterUser(t *testing.T) {
	reg := newRecordingRegistrar()
	l := newTestListener(reg)
	l.onPresence(nil, fakeMessage{payload: []byte(`{"role":"user","id":"u1","handle":"conn-1","event":"register"}`)})
	if reg.users["u1"] != "conn-1" {
		t.Fatalf("user not registered: %v", reg.users)
	}
}

func TestPresenceRegisterDriver(t *testing.T) {
	reg := newRecordingRegistrar()
	l := newTestListener(reg)
	l.onPresence(nil, fakeMessage{payload: []byte(`{"role":"driver","id":"d1","handle":"conn-2","event":"register"}`)})
	if reg.drivers["d1"] != "conn-2" {
		t.Fatalf("driver not registered: %v", reg.drivers)
	}
}

func TestPresenceDisconnect(t *testing.T) {
	reg := newRecordingRegistrar()
	l := newTestListener(reg)
	l.onPresence(nil, fakeMessage{payload: []byte(`{"handle":"conn-1","event":"disconnect"}`)})
	if len(reg.disconnected) != 1 || reg.disconnected[0] != "conn-1" {
		t.Fatalf("disconnect not forwarded: %v", reg.disconnected)
	}
}

func TestPresenceMalformedPayload(t *testing.T) {
	reg := newRecordingRegistrar()
	l := newTestListener(reg)
	l.onPresence(nil, fakeMessage{payload: []byte(`{not json`)})
	if len(reg.users)+len(reg.drivers)+len(reg.disconnected) != 0 {
		t.Fatalf("malformed payload mutated registry")
	}
}

var _ paho.MessageHandler = (*PresenceListener)(nil).onPresence
