package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/etnz/tradebook"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type recorder struct {
	msgs []kafka.Message
	err  error
}

func (r *recorder) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recorder) Close() error { return nil }

func testReport() *tradebook.Report {
	s := tradebook.NewSnapshot(
		[]tradebook.Record{
			{"account": "ABC", "date": "2025-01-05", "category": "Sale", "productType": "CRC", "quantity": 40, "debit": 200},
		},
		[]tradebook.Record{
			{"productType": "CRC", "quantity": 100, "purchaseRate": 10},
		},
	)
	return tradebook.NewEngine(nil).Run(s)
}

func TestNewReportComputed(t *testing.T) {
	report := testReport()
	e := NewReportComputed(report)
	if e.ID == "" {
		t.Errorf("ID is empty")
	}
	if e.Digest != report.Digest {
		t.Errorf("Digest = %q, want %q", e.Digest, report.Digest)
	}
	if len(e.Products) != 1 || e.Products[0].Product != "crc" || !e.Products[0].Remaining.Equal(tradebook.Q(60)) {
		t.Errorf("Products = %+v, want crc with 60 remaining", e.Products)
	}
	if other := NewReportComputed(report); other.ID == e.ID {
		t.Errorf("two events share ID %q", e.ID)
	}
}

func TestPublisher_Publish(t *testing.T) {
	w := &recorder{}
	p := &Publisher{writer: w, topic: "test", log: zap.NewNop()}

	event, err := p.Publish(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != event.Digest {
		t.Errorf("Key = %q, want %q", msg.Key, event.Digest)
	}
	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	if decoded["id"] != event.ID {
		t.Errorf("id = %v, want %v", decoded["id"], event.ID)
	}
}

func TestPublisher_PublishError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewPublisher(nil, "test", nil)
	p.writer = &recorder{err: boom}
	if _, err := p.Publish(context.Background(), testReport()); !errors.Is(err, boom) {
		t.Errorf("Publish() error = %v, want %v", err, boom)
	}
}
