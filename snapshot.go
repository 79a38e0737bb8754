package tradebook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Snapshot is one logical read of the raw records: the ledger and the stock
// receipts. The engine only ever works on a snapshot; it never re-reads the
// store mid-computation.
//
// A snapshot is immutable once built.
type Snapshot struct {
	ledger   []Record
	receipts []Record

	entries []LedgerEntry
	stock   []StockReceipt
}

// NewSnapshot builds a snapshot from raw ledger and receipt records, reading
// them into their canonical shapes.
func NewSnapshot(ledger, receipts []Record) *Snapshot {
	s := &Snapshot{
		ledger:   ledger,
		receipts: receipts,
		entries:  make([]LedgerEntry, len(ledger)),
		stock:    make([]StockReceipt, len(receipts)),
	}
	for i, r := range ledger {
		s.entries[i] = NewLedgerEntry(r)
	}
	for i, r := range receipts {
		s.stock[i] = NewStockReceipt(r)
	}
	return s
}

// Ledger returns the raw ledger records.
func (s *Snapshot) Ledger() []Record { return s.ledger }

// Receipts returns the raw stock receipt records.
func (s *Snapshot) Receipts() []Record { return s.receipts }

// Entries returns the canonical ledger entries, in record order.
func (s *Snapshot) Entries() []LedgerEntry { return s.entries }

// StockReceipts returns the canonical stock receipts, in record order.
func (s *Snapshot) StockReceipts() []StockReceipt { return s.stock }

// Digest returns a stable hex SHA-256 digest of the raw records. Identical
// snapshots have identical digests, whatever the key order of their records.
func (s *Snapshot) Digest() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// encoding/json writes map keys sorted, which makes the digest stable.
	enc.Encode(len(s.ledger))
	for _, r := range s.ledger {
		hashRecord(h, r)
	}
	enc.Encode(len(s.receipts))
	for _, r := range s.receipts {
		hashRecord(h, r)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashRecord writes r to h as JSON. Records JSON cannot encode (NaN or
// infinite floats, channels) are written with their Go syntax instead, which
// fmt also prints with sorted map keys.
func hashRecord(h io.Writer, r Record) {
	data, err := json.Marshal(r)
	if err != nil {
		fmt.Fprintf(h, "!%#v\n", r)
		return
	}
	h.Write(data)
	h.Write([]byte{'\n'})
}
