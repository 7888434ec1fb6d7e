package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"merchant-console/internal/models"
)

const (
	orderStream           = "ORDER_EVENTS"
	orderCompletedSubject = "order.completed"
)

// OrderCompletedEvent is the part of the order event the console reads
type OrderCompletedEvent struct {
	OrderID     string    `json:"orderId"`
	StoreID     int64     `json:"storeId"`
	TotalAmount int64     `json:"totalAmount"`
	OrderedAt   time.Time `json:"orderedAt"`
}

// SalesRecorder stores completed orders
type SalesRecorder interface {
	Record(ctx context.Context, record *models.SalesRecord) (bool, error)
}

var errInvalidOrderEvent = errors.New("invalid order event")

// OrderSubscriber feeds completed orders into the sales statistics
type OrderSubscriber struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	recorder SalesRecorder
	logger   *logrus.Entry
	consumer string
}

// NewOrderSubscriber connects to natsURL
func NewOrderSubscriber(natsURL string, recorder SalesRecorder, logger *logrus.Logger) (*OrderSubscriber, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("merchant-console-orders"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	hostname, _ := os.Hostname()
	return &OrderSubscriber{
		conn:     conn,
		js:       js,
		recorder: recorder,
		logger:   logger.WithField("component", "order-subscriber"),
		consumer: "merchant-console-sales-" + hostname,
	}, nil
}

// Start consumes order events until ctx is done
func (s *OrderSubscriber) Start(ctx context.Context) error {
	_, err := s.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      orderStream,
		Subjects:  []string{"order.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Could not ensure order stream")
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, orderStream, jetstream.ConsumerConfig{
		Durable:       s.consumer,
		FilterSubject: orderCompletedSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    3,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create order consumer: %w", err)
	}

	msgs, err := consumer.Messages()
	if err != nil {
		return fmt.Errorf("failed to open order message iterator: %w", err)
	}

	go s.consume(ctx, msgs)
	s.logger.WithField("subject", orderCompletedSubject).Info("Order subscriber started")
	return nil
}

func (s *OrderSubscriber) consume(ctx context.Context, msgs jetstream.MessagesContext) {
	go func() {
		<-ctx.Done()
		msgs.Stop()
	}()

	for {
		msg, err := msgs.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Warn("Error getting next order message")
			time.Sleep(time.Second)
			continue
		}

		err = s.HandleMessage(ctx, msg.Data())
		switch {
		case err == nil:
			_ = msg.Ack()
		case errors.Is(err, errInvalidOrderEvent):
			// Redelivery cannot fix a malformed event.
			s.logger.WithError(err).Warn("Dropping order event")
			_ = msg.Term()
		default:
			s.logger.WithError(err).Error("Failed to record order")
			_ = msg.Nak()
		}
	}
}

// HandleMessage records one order.completed payload
func (s *OrderSubscriber) HandleMessage(ctx context.Context, data []byte) error {
	var event OrderCompletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errInvalidOrderEvent, err)
	}
	if event.OrderID == "" || event.StoreID == 0 {
		return fmt.Errorf("%w: missing order or store id", errInvalidOrderEvent)
	}
	if event.OrderedAt.IsZero() {
		event.OrderedAt = time.Now()
	}

	inserted, err := s.recorder.Record(ctx, &models.SalesRecord{
		OrderID:   event.OrderID,
		StoreID:   event.StoreID,
		Amount:    event.TotalAmount,
		OrderedAt: event.OrderedAt.UTC(),
		Payload:   datatypes.JSON(data),
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  event.OrderID,
		"store_id":  event.StoreID,
		"duplicate": !inserted,
	}).Debug("Order event processed")
	return nil
}

// Close closes the NATS connection
func (s *OrderSubscriber) Close() {
	if s != nil && s.conn != nil {
		s.conn.Close()
	}
}
