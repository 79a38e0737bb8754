package mongodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/etnz/tradebook"
)

func TestNormalize(t *testing.T) {
	id := primitive.NewObjectID()
	on := time.Date(2025, time.January, 5, 10, 0, 0, 0, time.UTC)
	dec, err := primitive.ParseDecimal128("1250.50")
	if err != nil {
		t.Fatal(err)
	}
	doc := bson.M{
		"_id":         id,
		"date":        primitive.NewDateTimeFromTime(on),
		"category":    "Sale",
		"productType": "CRC",
		"debit":       dec,
		"payment":     bson.D{{Key: "method", Value: "cash"}},
		"items": bson.A{
			bson.D{{Key: "productType", Value: "rice"}, {Key: "quantity", Value: int32(2)}},
			bson.M{"productType": "salt", "quantity": int64(3)},
		},
		"note": primitive.Null{},
	}

	e := tradebook.NewLedgerEntry(Normalize(doc))
	if e.ID != id.Hex() {
		t.Errorf("ID = %q, want %q", e.ID, id.Hex())
	}
	if !e.When.Equal(on) {
		t.Errorf("When = %v, want %v", e.When, on)
	}
	if !e.Debit.Equal(tradebook.M(1250.5, "")) {
		t.Errorf("Debit = %v, want 1250.50", e.Debit)
	}
	if e.Payment.Method != "cash" {
		t.Errorf("Payment.Method = %q, want cash", e.Payment.Method)
	}
	sales := e.Sales()
	if len(sales) != 2 || sales[0].Product != "rice" || !sales[1].Quantity.Equal(tradebook.Q(3)) {
		t.Errorf("Sales() = %v, want rice×2 and salt×3", sales)
	}
}

type fakeClient struct {
	pingErr      error
	disconnected bool
}

func (c *fakeClient) Ping(ctx context.Context, rp *readpref.ReadPref) error { return c.pingErr }

func (c *fakeClient) Disconnect(ctx context.Context) error {
	c.disconnected = true
	return nil
}

func TestPing(t *testing.T) {
	ok := &fakeClient{}
	if err := ping(context.Background(), ok); err != nil {
		t.Errorf("ping() error = %v", err)
	}
	if ok.disconnected {
		t.Errorf("ping() disconnected a healthy client")
	}

	down := &fakeClient{pingErr: errors.New("no reachable servers")}
	err := ping(context.Background(), down)
	if err == nil || !strings.Contains(err.Error(), "no reachable servers") {
		t.Errorf("ping() error = %v, want the ping failure", err)
	}
	if !down.disconnected {
		t.Errorf("ping() left the client connected after a failed ping")
	}
}
