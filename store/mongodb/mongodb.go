// Package mongodb is a store of raw records kept in two MongoDB collections.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/store"
)

// Default collection names.
const (
	LedgerCollection   = "ledger"
	ReceiptsCollection = "stock_receipts"
)

// Store reads records from MongoDB.
type Store struct {
	client   *mongo.Client
	dbName   string
	ledger   string
	receipts string
	logger   *zap.Logger
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := ping(ctx, client); err != nil {
		return nil, err
	}
	return &Store{
		client:   client,
		dbName:   dbName,
		ledger:   LedgerCollection,
		receipts: ReceiptsCollection,
		logger:   logger,
	}, nil
}

type pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// ping verifies the connection of c, and disconnects it when it fails.
func ping(ctx context.Context, c pinger) error {
	if err := c.Ping(ctx, nil); err != nil {
		if derr := c.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			return fmt.Errorf("failed to ping mongodb: %w (disconnecting: %v)", err, derr)
		}
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

func (s *Store) LedgerRecords(ctx context.Context, f store.LedgerFilter) ([]tradebook.Record, error) {
	records, err := s.find(ctx, s.ledger)
	if err != nil {
		return nil, err
	}
	return store.FilterLedger(records, f), nil
}

func (s *Store) ReceiptRecords(ctx context.Context, f store.ReceiptFilter) ([]tradebook.Record, error) {
	records, err := s.find(ctx, s.receipts)
	if err != nil {
		return nil, err
	}
	return store.FilterReceipts(records, f), nil
}

// find reads a whole collection in natural order.
func (s *Store) find(ctx context.Context, collection string) ([]tradebook.Record, error) {
	cursor, err := s.client.Database(s.dbName).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	records := make([]tradebook.Record, len(docs))
	for i, d := range docs {
		records[i] = Normalize(d)
	}
	s.logger.Debug("collection read", zap.String("collection", collection), zap.Int("documents", len(docs)))
	return records, nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Normalize converts a BSON document into a plain record: nested documents
// become maps, arrays slices, dates time values, object ids hex strings and
// decimals strings.
func Normalize(doc bson.M) tradebook.Record {
	return tradebook.Record(normalizeMap(doc))
}

func normalizeMap(m map[string]any) map[string]any {
	res := make(map[string]any, len(m))
	for k, v := range m {
		res[k] = normalize(v)
	}
	return res
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		res := make([]any, len(t))
		for i, e := range t {
			res[i] = normalize(e)
		}
		return res
	case []any:
		res := make([]any, len(t))
		for i, e := range t {
			res[i] = normalize(e)
		}
		return res
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}

var _ store.Store = (*Store)(nil)
