package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-book-library/internal/model"
	"go-book-library/internal/policy"
	"go-book-library/pkg/apierror"
)

const msgBookNameTaken = "Book name must be unique"

type BookService struct {
	books      BookStore
	ownerScope bool
}

// NewBookService lists every owner's books unless ownerScopedList is set.
func NewBookService(books BookStore, ownerScopedList bool) *BookService {
	return &BookService{books: books, ownerScope: ownerScopedList}
}

func (s *BookService) List(ctx context.Context, actor model.Identity, page model.Page) ([]model.BookView, error) {
	if err := policy.Authorize(actor, policy.Collection(policy.ResourceBook), policy.ActionList).Err(); err != nil {
		return nil, err
	}

	filter := model.BookFilter{Page: page}
	if s.ownerScope {
		filter.OwnerID = actor.SubjectID
	}

	books, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, internalError("list books", err)
	}

	return model.NewBookViews(books), nil
}

func (s *BookService) Get(ctx context.Context, actor model.Identity, id string) (model.BookView, error) {
	book, err := s.load(ctx, actor, id, policy.ActionRead)
	if err != nil {
		return model.BookView{}, err
	}
	return model.NewBookView(book), nil
}

func (s *BookService) Create(ctx context.Context, actor model.Identity, req model.BookRequest) (model.BookView, error) {
	if err := policy.Authorize(actor, policy.Collection(policy.ResourceBook), policy.ActionCreate).Err(); err != nil {
		return model.BookView{}, err
	}

	now := time.Now().UTC()
	book := model.Book{
		ID:        uuid.NewString(),
		OwnerID:   actor.SubjectID,
		BookName:  strings.TrimSpace(req.BookName),
		Author:    strings.TrimSpace(req.Author),
		ISBN:      strings.TrimSpace(req.ISBN),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ensureNameFree(ctx, book.OwnerID, book.BookName, ""); err != nil {
		return model.BookView{}, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.BookView{}, apierror.Conflict(msgBookNameTaken)
		}
		return model.BookView{}, internalError("create book", err)
	}

	slog.Info("book created", "book_id", book.ID, "owner_id", book.OwnerID)
	return model.NewBookView(book), nil
}

// Update replaces name, author and isbn. The owner never changes.
func (s *BookService) Update(ctx context.Context, actor model.Identity, id string, req model.BookRequest) (model.BookView, error) {
	book, err := s.load(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return model.BookView{}, err
	}

	book.BookName = strings.TrimSpace(req.BookName)
	book.Author = strings.TrimSpace(req.Author)
	book.ISBN = strings.TrimSpace(req.ISBN)
	book.UpdatedAt = time.Now().UTC()

	if err := s.ensureNameFree(ctx, book.OwnerID, book.BookName, book.ID); err != nil {
		return model.BookView{}, err
	}

	if err := s.books.Update(ctx, book); err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicate):
			return model.BookView{}, apierror.Conflict(msgBookNameTaken)
		case errors.Is(err, model.ErrNotFound):
			return model.BookView{}, apierror.NotFound(msgBookNotFound)
		default:
			return model.BookView{}, internalError("update book", err)
		}
	}

	return model.NewBookView(book), nil
}

// Delete deactivates the book and returns it as it was removed.
func (s *BookService) Delete(ctx context.Context, actor model.Identity, id string) (model.BookView, error) {
	book, err := s.load(ctx, actor, id, policy.ActionDelete)
	if err != nil {
		return model.BookView{}, err
	}

	if err := s.books.Deactivate(ctx, book.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.BookView{}, apierror.NotFound(msgBookNotFound)
		}
		return model.BookView{}, internalError("delete book", err)
	}

	slog.Info("book deleted", "book_id", book.ID, "owner_id", book.OwnerID)
	book.IsActive = false
	return model.NewBookView(book), nil
}

func (s *BookService) ensureNameFree(ctx context.Context, ownerID string, name string, excludeID string) error {
	taken, err := s.books.ExistsByOwnerAndName(ctx, ownerID, name, excludeID)
	if err != nil {
		return internalError("check book name", err)
	}
	if taken {
		return apierror.Conflict(msgBookNameTaken)
	}
	return nil
}

func (s *BookService) load(ctx context.Context, actor model.Identity, id string, action policy.Action) (model.Book, error) {
	key, ok := canonicalID(id)
	if !ok {
		return model.Book{}, apierror.NotFound(msgBookNotFound)
	}

	book, err := s.books.FindByID(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, apierror.NotFound(msgBookNotFound)
	}
	if err != nil {
		return model.Book{}, internalError("load book", err)
	}

	if err := policy.Authorize(actor, policy.BookResource(book), action).Err(); err != nil {
		return model.Book{}, err
	}

	return book, nil
}
