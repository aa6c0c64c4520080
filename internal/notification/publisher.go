package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/domain/user"

	"github.com/google/uuid"
)

const EventReportCreated = "report.created"

// ReportEvent is the payload published for live dashboards.
// It carries no contact details.
type ReportEvent struct {
	Type       string    `json:"type"`
	ReportID   uuid.UUID `json:"reportId"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	HasImage   bool      `json:"hasImage"`
	Reporter   string    `json:"reporter"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewReportEvent(r *report.Report, reporter *user.User) *ReportEvent {
	return &ReportEvent{
		Type:       EventReportCreated,
		ReportID:   r.ID,
		Title:      r.Title,
		Status:     string(r.Status),
		Location:   r.Location,
		HasImage:   r.ImageURL != nil,
		Reporter:   reporter.Username,
		OccurredAt: r.CreatedAt,
	}
}

// Broker is the publishing side of an MQTT client
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher publishes report events under <prefix>/reports/created
type MQTTPublisher struct {
	broker Broker
	topic  string
}

func NewMQTTPublisher(broker Broker, topicPrefix string) *MQTTPublisher {
	prefix := strings.Trim(topicPrefix, "/")
	if prefix == "" {
		prefix = "lostfound"
	}
	return &MQTTPublisher{
		broker: broker,
		topic:  prefix + "/reports/created",
	}
}

func (p *MQTTPublisher) Topic() string {
	return p.topic
}

func (p *MQTTPublisher) PublishReportCreated(ctx context.Context, event *ReportEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode report event: %w", err)
	}

	if err := p.broker.Publish(p.topic, 1, false, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}
