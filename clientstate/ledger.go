package clientstate

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"dukaan/models"

	"github.com/google/uuid"
)

// ledgerFile is the on-disk shape: a device identity plus the envelopes.
type ledgerFile struct {
	DeviceID string               `json:"deviceId"`
	Entries  []models.LedgerEntry `json:"entries"`
}

// Ledger is the device's durable record of completed orders, the only
// order history a customer has without logging in. Append-mostly: entries
// leave only through Remove or Clear.
type Ledger struct {
	mu   sync.Mutex
	path string
	file ledgerFile
}

// OpenLedger loads the ledger at path, minting a device id on first use.
func OpenLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.file = ledgerFile{DeviceID: uuid.NewString(), Entries: []models.LedgerEntry{}}
		if err := l.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, &l.file); err != nil {
			return nil, err
		}
		if l.file.Entries == nil {
			l.file.Entries = []models.LedgerEntry{}
		}
	}
	return l, nil
}

func (l *Ledger) persist() error {
	data, err := json.MarshalIndent(l.file, "", "  ")
	if err != nil {
		return err
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

// DeviceID identifies this ledger to the reconciler.
func (l *Ledger) DeviceID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.DeviceID
}

// Append records a completed order. Appending the same orderId again
// replaces the entry, so a retried checkout saga never duplicates.
func (l *Ledger) Append(order models.Order, notificationLink string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := models.LedgerEntry{Order: order, NotificationLink: notificationLink}
	for i, e := range l.file.Entries {
		if e.Order.OrderID == order.OrderID {
			l.file.Entries[i] = entry
			return l.persist()
		}
	}
	l.file.Entries = append(l.file.Entries, entry)
	return l.persist()
}

// Remove drops a single entry by order id.
func (l *Ledger) Remove(orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.file.Entries[:0]
	for _, e := range l.file.Entries {
		if e.Order.OrderID != orderID {
			next = append(next, e)
		}
	}
	l.file.Entries = next
	return l.persist()
}

// Clear empties the ledger.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file.Entries = []models.LedgerEntry{}
	return l.persist()
}

// Entries returns a copy of the recorded orders.
func (l *Ledger) Entries() []models.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LedgerEntry, len(l.file.Entries))
	copy(out, l.file.Entries)
	return out
}
