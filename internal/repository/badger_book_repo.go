package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"go-book-library/internal/model"
)

type BadgerBookRepository struct {
	store *BadgerStore
}

func bookKey(id string) []byte {
	return []byte(bookPrefix + id)
}

// bookNameKey exists only for active books.
func bookNameKey(ownerID string, name string) []byte {
	return []byte(bookByOwnerPrefix + ownerID + ":name:" + name)
}

func (r *BadgerBookRepository) Create(_ context.Context, b model.Book) error {
	return r.store.update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{bookKey(b.ID), bookNameKey(b.OwnerID, b.BookName)} {
			exists, err := keyExists(txn, key)
			if err != nil {
				return fmt.Errorf("check book key: %w", err)
			}
			if exists {
				return model.ErrDuplicate
			}
		}

		if err := setJSON(txn, bookKey(b.ID), b); err != nil {
			return err
		}
		return txn.Set(bookNameKey(b.OwnerID, b.BookName), []byte(b.ID))
	})
}

func (r *BadgerBookRepository) FindByID(_ context.Context, id string) (model.Book, error) {
	var b model.Book
	err := r.store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, bookKey(id), &b)
	})
	if err != nil {
		return model.Book{}, wrapFind("find book by id", err)
	}
	if !b.IsActive {
		return model.Book{}, model.ErrNotFound
	}
	return b, nil
}

func (r *BadgerBookRepository) ExistsByOwnerAndName(_ context.Context, ownerID string, name string, excludeID string) (bool, error) {
	var exists bool
	err := r.store.db.View(func(txn *badger.Txn) error {
		id, err := readString(txn, bookNameKey(ownerID, name))
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = id != excludeID
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check book name exists: %w", err)
	}
	return exists, nil
}

func (r *BadgerBookRepository) List(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	var books []model.Book
	err := r.store.db.View(func(txn *badger.Txn) error {
		var err error
		books, err = scanPrefix(txn, bookPrefix, func(b *model.Book) bool {
			return b.IsActive && (filter.OwnerID == "" || b.OwnerID == filter.OwnerID)
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return paginate(books, filter.Page,
		func(b model.Book) time.Time { return b.CreatedAt },
		func(b model.Book) string { return b.ID },
	), nil
}

// Update moves the name index when the name changes. OwnerID is taken from
// the stored document, never from the argument.
func (r *BadgerBookRepository) Update(_ context.Context, b model.Book) error {
	return r.store.update(func(txn *badger.Txn) error {
		var current model.Book
		if err := getJSON(txn, bookKey(b.ID), &current); err != nil {
			return err
		}
		if !current.IsActive {
			return model.ErrNotFound
		}

		if current.BookName != b.BookName {
			newKey := bookNameKey(current.OwnerID, b.BookName)
			exists, err := keyExists(txn, newKey)
			if err != nil {
				return fmt.Errorf("check book name: %w", err)
			}
			if exists {
				return model.ErrDuplicate
			}
			if err := txn.Delete(bookNameKey(current.OwnerID, current.BookName)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(current.ID)); err != nil {
				return err
			}
		}

		current.BookName = b.BookName
		current.Author = b.Author
		current.ISBN = b.ISBN
		current.UpdatedAt = b.UpdatedAt
		return setJSON(txn, bookKey(b.ID), current)
	})
}

// Deactivate releases the name so the owner can reuse it.
func (r *BadgerBookRepository) Deactivate(_ context.Context, id string) error {
	return r.store.update(func(txn *badger.Txn) error {
		var current model.Book
		if err := getJSON(txn, bookKey(id), &current); err != nil {
			return err
		}
		if !current.IsActive {
			return model.ErrNotFound
		}

		if err := txn.Delete(bookNameKey(current.OwnerID, current.BookName)); err != nil {
			return err
		}

		current.IsActive = false
		current.UpdatedAt = time.Now().UTC()
		return setJSON(txn, bookKey(id), current)
	})
}
