package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (f *fakeBroker) Publish(topic string, qos byte, _ bool, payload []byte) error {
	f.topic, f.qos, f.payload = topic, qos, payload
	return f.err
}

func TestMQTTPublisher(t *testing.T) {
	broker := &fakeBroker{}
	pub := NewMQTTPublisher(broker, "/campus/")

	r, reporter := testReport()
	require.NoError(t, pub.PublishReportCreated(context.Background(), NewReportEvent(r, reporter)))

	assert.Equal(t, "campus/reports/created", broker.topic)
	assert.Equal(t, byte(1), broker.qos)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(broker.payload, &got))
	assert.Equal(t, "report.created", got["type"])
	assert.Equal(t, "Blue Backpack", got["title"])
	assert.Equal(t, "alice", got["reporter"])
	assert.NotContains(t, got, "email")
}

func TestMQTTPublisher_Errors(t *testing.T) {
	pub := NewMQTTPublisher(&fakeBroker{err: errors.New("not connected")}, "")
	assert.Equal(t, "lostfound/reports/created", pub.Topic())

	r, reporter := testReport()
	assert.Error(t, pub.PublishReportCreated(context.Background(), NewReportEvent(r, reporter)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.PublishReportCreated(ctx, NewReportEvent(r, reporter)), context.Canceled)
}
