package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Store is the badger-backed append-only transaction log.
type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) (s *Store) {
	return &Store{db: db}
}

func entryKey(transactionID string, seq uint64) (key []byte) {
	key = []byte(fmt.Sprintf("/tx/%s/", transactionID))
	return binary.BigEndian.AppendUint64(key, seq)
}

func historyPrefix(transactionID string) (prefix []byte) {
	return []byte(fmt.Sprintf("/tx/%s/", transactionID))
}

// Append writes entry as the next record for its transaction. The
// sequence number is assigned inside the transaction so concurrent
// appends for the same id never collide.
func (s *Store) Append(ctx context.Context, entry Entry) (err error) {
	if entry.TransactionID == "" {
		return errors.New("entry is missing a transaction id")
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	err = s.db.Update(func(txn *badger.Txn) (err error) {
		entry.Sequence, err = s.nextSequence(txn, entry.TransactionID)
		if err != nil {
			return err
		}

		err = txn.Set(entryKey(entry.TransactionID, entry.Sequence), entry.Bytes())
		if err != nil {
			return fmt.Errorf("failed to set entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (s *Store) nextSequence(txn *badger.Txn, transactionID string) (seq uint64, err error) {
	prefix := historyPrefix(transactionID)

	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
		seq++
	}
	return seq, nil
}

// History returns every entry recorded for a transaction in append order.
func (s *Store) History(ctx context.Context, transactionID string) (entries []Entry, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	prefix := historyPrefix(transactionID)
	err = s.db.View(func(txn *badger.Txn) (err error) {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			var entry Entry
			err = it.Item().Value(func(val []byte) (err error) {
				return entry.FromBytes(val)
			})
			if err != nil {
				return fmt.Errorf("failed to read entry value: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrTransactionNotFound
	}
	return entries, nil
}

// Latest returns the most recent entry for a transaction.
func (s *Store) Latest(ctx context.Context, transactionID string) (entry Entry, err error) {
	entries, err := s.History(ctx, transactionID)
	if err != nil {
		return entry, err
	}
	return entries[len(entries)-1], nil
}
