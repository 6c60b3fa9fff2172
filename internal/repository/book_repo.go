package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-book-library/internal/database"
	"go-book-library/internal/model"
)

const bookColumns = `id, owner_id, book_name, author, isbn, is_active, created_at, updated_at`

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) Create(ctx context.Context, b model.Book) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (`+bookColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.OwnerID, b.BookName, b.Author, b.ISBN, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return model.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (model.Book, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1 AND is_active`, id)

	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Book{}, model.ErrNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("find book by id: %w", err)
	}
	return b, nil
}

// ExistsByOwnerAndName checks active books of ownerID, ignoring excludeID when set.
func (r *BookRepository) ExistsByOwnerAndName(ctx context.Context, ownerID string, name string, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM books
			WHERE owner_id = $1 AND book_name = $2 AND is_active
			  AND ($3 = '' OR id::text <> $3)
		)`, ownerID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check book name exists: %w", err)
	}
	return exists, nil
}

func (r *BookRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE is_active AND ($1 = '' OR owner_id::text = $1)
		 ORDER BY created_at DESC, id
		 OFFSET $2 LIMIT $3`, filter.OwnerID, filter.Page.Skip, filter.Page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Update never touches owner_id.
func (r *BookRepository) Update(ctx context.Context, b model.Book) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET book_name = $2, author = $3, isbn = $4, updated_at = $5
		 WHERE id = $1 AND is_active`,
		b.ID, b.BookName, b.Author, b.ISBN, b.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return model.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *BookRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET is_active = false, updated_at = $2 WHERE id = $1 AND is_active`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.OwnerID, &b.BookName, &b.Author, &b.ISBN,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
