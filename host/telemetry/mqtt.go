// Package telemetry republishes link state over MQTT so plotting and
// system-identification tools can subscribe without touching the serial
// port.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"pendulum/host/link"
)

// publishTimeout bounds how long one publish may hold up the caller.
// Publish runs on the link's reader goroutine, so a stalled broker must
// not block telemetry intake.
const publishTimeout = time.Second

// Sample is the JSON payload published per telemetry frame.
type Sample struct {
	PositionTicks int16   `json:"position_ticks"`
	AngleUnits    uint16  `json:"angle_units"`
	PositionMM    float64 `json:"position_mm"`
	AngleRadians  float64 `json:"angle_rad"`
	TimeMS        int64   `json:"time_ms"`
}

// newSample converts one link state to the published form.
func newSample(units link.Units, st link.State) Sample {
	return Sample{
		PositionTicks: st.Position,
		AngleUnits:    st.Angle,
		PositionMM:    units.PositionMM(st.Position),
		AngleRadians:  link.AngleRadians(st.Angle),
		TimeMS:        st.Received.UnixNano() / 1e6,
	}
}

// Publisher pushes link states to one MQTT topic.
type Publisher struct {
	client paho.Client
	topic  string
	units  link.Units
}

// NewPublisher connects to the broker and returns a publisher for topic.
func NewPublisher(brokerURL, clientID, topic string, units link.Units) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID)

	client := paho.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", brokerURL, err)
	}

	glog.Infof("telemetry: connected to MQTT broker %s, topic %s", brokerURL, topic)
	return &Publisher{client: client, topic: topic, units: units}, nil
}

// Publish sends one state sample. QoS 0: stale samples are worthless, the
// next frame supersedes them, and a slow broker is abandoned after
// publishTimeout rather than stalling the link reader.
func (p *Publisher) Publish(st link.State) error {
	payload, err := json.Marshal(newSample(p.units, st))
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
