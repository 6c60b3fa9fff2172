package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"go-book-library/internal/model"
)

const (
	userPrefix         = "user:"
	userByEmailPrefix  = "idx:users:email:"
	bookPrefix         = "book:"
	bookByOwnerPrefix  = "idx:books:owner:"
	maxConflictRetries = 3
)

// BadgerStore keeps users and books as JSON documents in an embedded badger
// database. Unique constraints are index keys written in the same transaction
// as the document.
type BadgerStore struct {
	db *badger.DB
}

type BadgerOptions struct {
	Path     string
	InMemory bool
}

func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil
	bopts.SyncWrites = !opts.InMemory

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	slog.Info("badger store opened", "path", opts.Path, "in_memory", opts.InMemory)
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) Health(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

func (s *BadgerStore) Users() *BadgerUserRepository {
	return &BadgerUserRepository{store: s}
}

func (s *BadgerStore) Books() *BadgerBookRepository {
	return &BadgerBookRepository{store: s}
}

// update retries fn when a concurrent transaction touched the same keys, so
// the retried attempt observes the winner's index entries.
func (s *BadgerStore) update(fn func(txn *badger.Txn) error) error {
	var err error
	for range maxConflictRetries {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func getJSON(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func setJSON(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return txn.Set(key, data)
}

func keyExists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func readString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// scanPrefix decodes every document under prefix and keeps those accepted by keep.
func scanPrefix[T any](txn *badger.Txn, prefix string, keep func(*T) bool) ([]T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	out := make([]T, 0)
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		var doc T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		if keep(&doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// paginate sorts newest first (ties by id) and applies the skip/limit window.
func paginate[T any](docs []T, page model.Page, createdAt func(T) time.Time, id func(T) string) []T {
	sort.SliceStable(docs, func(i, j int) bool {
		ci, cj := createdAt(docs[i]), createdAt(docs[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(docs[i]) < id(docs[j])
	})

	if page.Skip >= len(docs) {
		return []T{}
	}
	docs = docs[page.Skip:]
	if page.Limit > 0 && page.Limit < len(docs) {
		docs = docs[:page.Limit]
	}
	return docs
}
