//go:build !no_containers

package test

import (
	"context"
	"encoding/json"
	"os/exec"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/core/model"
	infmqtt "github.com/xeniter/romygo/infra/mqtt"
	"github.com/xeniter/romygo/internal/eventbus"
	"github.com/xeniter/romygo/test/util"
)

type messageCapture struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func newMessageCapture() *messageCapture {
	return &messageCapture{msgs: map[string][]string{}}
}

func (c *messageCapture) record(topic string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs[topic] = append(c.msgs[topic], string(payload))
}

func (c *messageCapture) last(topic string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.msgs[topic]
	if len(list) == 0 {
		return "", false
	}
	return list[len(list)-1], true
}

func subscribeCapture(t *testing.T, broker, filter string) *messageCapture {
	t.Helper()
	capture := newMessageCapture()
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("capture")
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("capture connect: %v", token.Error())
	}
	t.Cleanup(func() { cli.Disconnect(100) })
	if token := cli.Subscribe(filter, 0, func(_ paho.Client, msg paho.Message) {
		capture.record(msg.Topic(), msg.Payload())
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("capture subscribe: %v", token.Error())
	}
	return capture
}

// TestMirrorWithMQTTContainer runs the state mirror against a real broker:
// availability announce, retained status snapshots, event stream and the
// offline marker on shutdown.
func TestMirrorWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Fatalf("start mosquitto: %v", err)
	}
	defer cleanup()

	const robotID = "e2e-bot-1"
	capture := subscribeCapture(t, broker, "romy/"+robotID+"/#")

	mirror, err := infmqtt.NewMirror(infmqtt.Config{
		Enabled:   true,
		Broker:    broker,
		ClientID:  "e2e",
		BaseTopic: "romy",
	}, model.RobotInfo{UniqueID: robotID, Name: "Kitchen", Model: "C5"})
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}

	bus := eventbus.New()
	defer bus.Close()
	mirrorCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	infmqtt.StartEventMirror(mirrorCtx, bus, mirror)

	availability := "romy/" + robotID + "/availability"
	waitFor(t, func() bool {
		msg, ok := capture.last(availability)
		return ok && msg == "online"
	}, "online announce")

	bus.Publish(events.StatusUpdated{RobotID: robotID, Status: model.Status{
		Mode:         model.ModeCleaning,
		BatteryLevel: 80,
	}})

	statusTopic := "romy/" + robotID + "/status"
	waitFor(t, func() bool {
		_, ok := capture.last(statusTopic)
		return ok
	}, "status snapshot")
	raw, _ := capture.last(statusTopic)
	var st struct {
		RobotID      string `json:"robot_id"`
		Name         string `json:"name"`
		Mode         string `json:"mode"`
		BatteryLevel int    `json:"battery_level"`
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.RobotID != robotID || st.Name != "Kitchen" || st.Mode != "cleaning" || st.BatteryLevel != 80 {
		t.Fatalf("unexpected status payload: %s", raw)
	}

	bus.Publish(events.StateChanged{
		RobotID: robotID,
		From:    model.ModeDocked,
		To:      model.ModeCleaning,
		Time:    time.Now(),
	})

	eventTopic := "romy/" + robotID + "/event"
	waitFor(t, func() bool {
		_, ok := capture.last(eventTopic)
		return ok
	}, "state change event")
	raw, _ = capture.last(eventTopic)
	var ev struct {
		RobotID string `json:"robot_id"`
		Event   string `json:"event"`
	}
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.RobotID != robotID || ev.Event != "state_changed" {
		t.Fatalf("unexpected event payload: %s", raw)
	}

	mirror.Close()
	waitFor(t, func() bool {
		msg, ok := capture.last(availability)
		return ok && msg == "offline"
	}, "offline marker")
}
