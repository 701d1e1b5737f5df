//go:build !tinygo

package wire

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tilt_streamer/internal/orientation"
)

// MQTTSink publishes each filtered tilt sample as retained JSON so the
// console, web and display subscribers can pick up the live stream.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

// NewMQTTSink connects to the broker and returns a publishing sink.
func NewMQTTSink(broker, clientID, topic string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}

	return &MQTTSink{client: client, topic: topic}, nil
}

func (s *MQTTSink) Emit(t orientation.Tilt) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("tilt marshal: %w", err)
	}
	if token := s.client.Publish(s.topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish (%s): %w", s.topic, token.Error())
	}
	return nil
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
