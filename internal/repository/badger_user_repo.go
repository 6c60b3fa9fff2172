package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"go-book-library/internal/model"
)

type BadgerUserRepository struct {
	store *BadgerStore
}

func userKey(id string) []byte {
	return []byte(userPrefix + id)
}

func userEmailKey(email string) []byte {
	return []byte(userByEmailPrefix + model.NormalizeEmail(email))
}

func (r *BadgerUserRepository) Create(_ context.Context, u model.User) error {
	u.Email = model.NormalizeEmail(u.Email)

	return r.store.update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{userKey(u.ID), userEmailKey(u.Email)} {
			exists, err := keyExists(txn, key)
			if err != nil {
				return fmt.Errorf("check user key: %w", err)
			}
			if exists {
				return model.ErrDuplicate
			}
		}

		if err := setJSON(txn, userKey(u.ID), u); err != nil {
			return err
		}
		return txn.Set(userEmailKey(u.Email), []byte(u.ID))
	})
}

func (r *BadgerUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	var u model.User
	err := r.store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &u)
	})
	if err != nil {
		return model.User{}, wrapFind("find user by id", err)
	}
	if !u.IsActive {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *BadgerUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	var u model.User
	err := r.store.db.View(func(txn *badger.Txn) error {
		id, err := readString(txn, userEmailKey(email))
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &u)
	})
	if err != nil {
		return model.User{}, wrapFind("find user by email", err)
	}
	if !u.IsActive {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *BadgerUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var exists bool
	err := r.store.db.View(func(txn *badger.Txn) error {
		var err error
		exists, err = keyExists(txn, userEmailKey(email))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *BadgerUserRepository) List(_ context.Context, page model.Page) ([]model.User, error) {
	var users []model.User
	err := r.store.db.View(func(txn *badger.Txn) error {
		var err error
		users, err = scanPrefix(txn, userPrefix, func(u *model.User) bool { return u.IsActive })
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return paginate(users, page,
		func(u model.User) time.Time { return u.CreatedAt },
		func(u model.User) string { return u.ID },
	), nil
}

func (r *BadgerUserRepository) UpdateProfile(_ context.Context, u model.User) error {
	return r.store.update(func(txn *badger.Txn) error {
		var current model.User
		if err := getJSON(txn, userKey(u.ID), &current); err != nil {
			return err
		}
		if !current.IsActive {
			return model.ErrNotFound
		}

		current.FirstName = u.FirstName
		current.LastName = u.LastName
		current.UpdatedAt = u.UpdatedAt
		return setJSON(txn, userKey(u.ID), current)
	})
}

// Deactivate keeps the email index entry so the address stays reserved.
func (r *BadgerUserRepository) Deactivate(_ context.Context, id string) error {
	return r.store.update(func(txn *badger.Txn) error {
		var current model.User
		if err := getJSON(txn, userKey(id), &current); err != nil {
			return err
		}
		if !current.IsActive {
			return model.ErrNotFound
		}

		current.IsActive = false
		current.UpdatedAt = time.Now().UTC()
		return setJSON(txn, userKey(id), current)
	})
}

func wrapFind(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
