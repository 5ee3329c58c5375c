package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	infraoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/outbox"
)

// EventPublisher formats outbox records as CloudEvents and routes them to a
// topic per aggregate. The outbox record id doubles as the CloudEvents id so
// consumers can deduplicate redeliveries.
type EventPublisher struct {
	Producer    *Producer
	Source      string
	TopicPrefix string
}

type cloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Time            string          `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Subject         string          `json:"subject,omitempty"`
	Data            json.RawMessage `json:"data"`
}

func (p *EventPublisher) Publish(ctx context.Context, record appoutbox.EventRecord) error {
	envelope := cloudEvent{
		SpecVersion:     "1.0",
		ID:              record.ID,
		Source:          p.source(),
		Type:            record.Name,
		Time:            record.OccurredAt.UTC().Format(time.RFC3339Nano),
		DataContentType: "application/json",
		Subject:         record.Aggregate,
		Data:            record.Payload,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range record.Headers {
		headers[k] = v
	}
	return p.Producer.Publish(ctx, p.topicFor(record.Name), record.Aggregate, payload, headers)
}

func (p *EventPublisher) source() string {
	if p.Source != "" {
		return p.Source
	}
	return "tetouanluxury"
}

// topicFor maps "booking.requested" to "<prefix>.booking".
func (p *EventPublisher) topicFor(eventName string) string {
	prefix := p.TopicPrefix
	if prefix == "" {
		prefix = "tetouanluxury"
	}
	aggregate := eventName
	if idx := strings.IndexByte(eventName, '.'); idx > 0 {
		aggregate = eventName[:idx]
	}
	return prefix + "." + aggregate
}

var _ infraoutbox.Publisher = (*EventPublisher)(nil)
