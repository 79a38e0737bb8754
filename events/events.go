// Package events publishes report summaries to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/tradebook"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProductAvailability is the stock of one product in a ReportComputed event.
type ProductAvailability struct {
	Product        string             `json:"product"`
	Remaining      tradebook.Quantity `json:"remaining"`
	Oversold       tradebook.Quantity `json:"oversold"`
	RemainingValue tradebook.Money    `json:"remainingValue"`
	Margin         tradebook.Margin   `json:"margin"`
}

// ReportComputed is emitted each time a report is computed from a snapshot.
type ReportComputed struct {
	ID        string                     `json:"id"`
	Digest    string                     `json:"digest"`
	Generated time.Time                  `json:"generated"`
	Currency  string                     `json:"currency,omitempty"`
	Totals    tradebook.Totals           `json:"totals"`
	Products  []ProductAvailability      `json:"products"`
	Accounts  []tradebook.AccountSummary `json:"accounts"`
}

// NewReportComputed summarizes report into an event with a fresh ID.
func NewReportComputed(report *tradebook.Report) ReportComputed {
	e := ReportComputed{
		ID:        uuid.NewString(),
		Digest:    report.Digest,
		Generated: report.Generated,
		Currency:  report.Currency,
		Totals:    report.Totals,
		Products:  make([]ProductAvailability, 0, len(report.Positions)),
		Accounts:  report.Balances.Accounts,
	}
	for _, p := range report.Positions {
		e.Products = append(e.Products, ProductAvailability{
			Product:        p.Product,
			Remaining:      p.Remaining,
			Oversold:       p.Oversold,
			RemainingValue: p.RemainingValue,
			Margin:         p.Margin,
		})
	}
	return e
}

// messageWriter is the part of kafka.Writer used by the Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events to a Kafka topic.
type Publisher struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

// NewPublisher returns a publisher to topic on brokers.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
		log:   logger,
	}
}

// Publish writes the ReportComputed event of report, keyed by the snapshot
// digest so that events of the same snapshot land on the same partition.
func (p *Publisher) Publish(ctx context.Context, report *tradebook.Report) (ReportComputed, error) {
	event := NewReportComputed(report)
	data, err := json.Marshal(event)
	if err != nil {
		return event, fmt.Errorf("encoding event %s: %w", event.ID, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Digest),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("report.computed")},
			{Key: "id", Value: []byte(event.ID)},
		},
	})
	if err != nil {
		return event, fmt.Errorf("publishing event %s to %q: %w", event.ID, p.topic, err)
	}
	p.log.Info("report event published",
		zap.String("id", event.ID),
		zap.String("topic", p.topic),
		zap.String("digest", event.Digest))
	return event, nil
}

// Close flushes pending messages and closes the publisher.
func (p *Publisher) Close() error { return p.writer.Close() }
