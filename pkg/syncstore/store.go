// Package syncstore maintains the durable per-contact synchronization state
// used by the messaging integration. Records are keyed by a normalized contact
// identifier and mutated by field-level merge, never replaced wholesale by
// caller input.
package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Gobusters/ectologger"

	apperrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/redis"
)

// keyPrefix namespaces sync records in the key-value backend.
const keyPrefix = "sync:contact:"

// Record is the stored sync state for one contact. Pointer fields distinguish
// "absent" from "set to empty".
type Record struct {
	DealID                *string `json:"dealId,omitempty"`
	LastMessageIdentifier *string `json:"lastMessageIdentifier,omitempty"`
	SyncedBy              *string `json:"syncedBy,omitempty"`
	LastSyncTimestamp     *string `json:"lastSyncTimestamp,omitempty"`
}

// Partial is a caller-supplied partial update. Only present (non-nil) fields
// are merged onto the stored record.
type Partial struct {
	DealID                *string
	LastMessageIdentifier *string
	SyncedBy              *string
}

// KeyValue is the persistence boundary the store writes through.
type KeyValue interface {
	GetOptional(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// NormalizeKey canonicalizes a contact identifier into a storage key. A
// `+`-prefixed identifier is treated as an international-format phone number
// and reduced to its digits; anything else is treated as a display name and
// used unmodified. Read and write paths must both go through this so the same
// logical contact always maps to the same key.
func NormalizeKey(identifier string) (string, error) {
	key := identifier
	if strings.HasPrefix(identifier, "+") {
		var digits strings.Builder
		for _, r := range identifier {
			if unicode.IsDigit(r) {
				digits.WriteRune(r)
			}
		}
		key = digits.String()
	}

	if key == "" {
		return "", apperrors.NewInvalidKey("contact identifier %q normalizes to an empty key", identifier)
	}
	return key, nil
}

// Store reads and merge-writes sync records.
type Store struct {
	kv      KeyValue
	locker  *redis.Locker
	lockTTL time.Duration
	logger  ectologger.Logger
	now     func() time.Time
}

// NewStore creates a sync store on top of a key-value backend.
func NewStore(kv KeyValue, logger ectologger.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// WithLocker enables the stricter upsert path: writers on the same normalized
// key are serialized with a distributed lock, closing the read-modify-write
// race at the cost of a lock round trip. Without it, concurrent upserts on one
// key are last-write-wins at whole-record granularity.
func (s *Store) WithLocker(locker *redis.Locker, ttl time.Duration) *Store {
	s.locker = locker
	s.lockTTL = ttl
	return s
}

// Upsert merges a partial update into the stored record for the contact and
// returns the merged record. The record is created on first write. When the
// partial carries SyncedBy, LastSyncTimestamp is stamped server-side.
func (s *Store) Upsert(ctx context.Context, identifier string, partial Partial) (*Record, error) {
	key, err := NormalizeKey(identifier)
	if err != nil {
		metrics.SyncOperationsTotal.WithLabelValues("upsert", "invalid_key").Inc()
		return nil, err
	}

	var merged *Record
	apply := func() error {
		record, err := s.load(ctx, key)
		if err != nil {
			return err
		}

		s.merge(record, partial)

		if err := s.save(ctx, key, record); err != nil {
			return err
		}
		merged = record
		return nil
	}

	if s.locker != nil {
		err = s.locker.WithLock(ctx, key, s.lockTTL, apply)
	} else {
		err = apply()
	}
	if err != nil {
		metrics.SyncOperationsTotal.WithLabelValues("upsert", "error").Inc()
		return nil, err
	}

	metrics.SyncOperationsTotal.WithLabelValues("upsert", "success").Inc()
	s.logger.WithContext(ctx).WithFields(map[string]interface{}{"contact_key": key}).Debug("Merged sync record")
	return merged, nil
}

// Read returns the stored record for the contact, or a not-found error.
func (s *Store) Read(ctx context.Context, identifier string) (*Record, error) {
	key, err := NormalizeKey(identifier)
	if err != nil {
		metrics.SyncOperationsTotal.WithLabelValues("read", "invalid_key").Inc()
		return nil, err
	}

	raw, found, err := s.kv.GetOptional(ctx, keyPrefix+key)
	if err != nil {
		metrics.SyncOperationsTotal.WithLabelValues("read", "error").Inc()
		return nil, fmt.Errorf("failed to read sync record %s: %w", key, err)
	}
	if !found {
		metrics.SyncOperationsTotal.WithLabelValues("read", "not_found").Inc()
		return nil, apperrors.NewNotFound("no sync record for contact %s", identifier)
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		metrics.SyncOperationsTotal.WithLabelValues("read", "error").Inc()
		return nil, fmt.Errorf("corrupt sync record %s: %w", key, err)
	}

	metrics.SyncOperationsTotal.WithLabelValues("read", "success").Inc()
	return &record, nil
}

// load reads the existing record, treating absence as an empty record.
func (s *Store) load(ctx context.Context, key string) (*Record, error) {
	raw, found, err := s.kv.GetOptional(ctx, keyPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync record %s: %w", key, err)
	}
	if !found {
		return &Record{}, nil
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("corrupt sync record %s: %w", key, err)
	}
	return &record, nil
}

// merge applies present partial fields onto the record, leaving absent fields
// untouched.
func (s *Store) merge(record *Record, partial Partial) {
	if partial.DealID != nil {
		record.DealID = partial.DealID
	}
	if partial.LastMessageIdentifier != nil {
		record.LastMessageIdentifier = partial.LastMessageIdentifier
	}
	if partial.SyncedBy != nil {
		record.SyncedBy = partial.SyncedBy
		stamp := s.now().UTC().Format(time.RFC3339)
		record.LastSyncTimestamp = &stamp
	}
}

func (s *Store) save(ctx context.Context, key string, record *Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize sync record %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, keyPrefix+key, payload, 0); err != nil {
		return fmt.Errorf("failed to write sync record %s: %w", key, err)
	}
	return nil
}
