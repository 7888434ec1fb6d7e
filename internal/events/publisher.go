package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"merchant-console/internal/models"
)

const (
	StreamName = "MERCHANT_CONSOLE"

	SubjectProductCreated = "console.product.created"
	SubjectStoreUpdated   = "console.store.updated"
)

// Event is the envelope of everything the console publishes
type Event struct {
	EventID   string      `json:"eventId"`
	EventType string      `json:"eventType"`
	StoreID   int64       `json:"storeId"`
	OwnerID   string      `json:"ownerId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ProductCreatedData summarizes a submitted option product
type ProductCreatedData struct {
	Name         string   `json:"name"`
	OptionGroups []string `json:"optionGroups"`
	VariantCount int      `json:"variantCount"`
}

// StoreUpdatedData names what changed on the store
type StoreUpdatedData struct {
	Change string      `json:"change"`
	Value  interface{} `json:"value,omitempty"`
}

// Publisher publishes console events to JetStream. A nil *Publisher
// accepts every call and publishes nothing.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to natsURL and ensures the console stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	log := logger.WithField("component", "console-events")

	conn, err := nats.Connect(natsURL,
		nats.Name("merchant-console"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"console.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to ensure console stream (may already exist)")
	}

	return &Publisher{conn: conn, js: js, logger: log}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}

// PublishProductCreated announces a submitted option product
func (p *Publisher) PublishProductCreated(ctx context.Context, storeID int64, ownerID string, req models.CreateOptionProductRequest) error {
	if p == nil {
		return nil
	}
	groups := make([]string, len(req.OptionGroups))
	for i, g := range req.OptionGroups {
		groups[i] = g.Name
	}
	return p.publish(ctx, SubjectProductCreated, storeID, ownerID, ProductCreatedData{
		Name:         req.Name,
		OptionGroups: groups,
		VariantCount: len(req.Variants),
	})
}

// PublishStoreUpdated announces a change to store settings
func (p *Publisher) PublishStoreUpdated(ctx context.Context, storeID int64, ownerID, change string, value interface{}) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, SubjectStoreUpdated, storeID, ownerID, StoreUpdatedData{Change: change, Value: value})
}

func (p *Publisher) publish(ctx context.Context, subject string, storeID int64, ownerID string, data interface{}) error {
	payload, err := json.Marshal(Event{
		EventID:   uuid.NewString(),
		EventType: subject,
		StoreID:   storeID,
		OwnerID:   ownerID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", subject, err)
	}

	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"subject":  subject,
			"store_id": storeID,
		}).Error("Failed to publish event")
		return err
	}
	p.logger.WithFields(logrus.Fields{"subject": subject, "store_id": storeID}).Debug("Event published")
	return nil
}
