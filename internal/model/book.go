package model

import "time"

type Book struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	BookName  string    `json:"book_name"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookView struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	BookName  string    `json:"bookName"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewBookView(b Book) BookView {
	return BookView{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		BookName:  b.BookName,
		Author:    b.Author,
		ISBN:      b.ISBN,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}

func NewBookViews(books []Book) []BookView {
	out := make([]BookView, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookView(b))
	}
	return out
}

// BookFilter narrows a book listing. An empty OwnerID lists every owner.
type BookFilter struct {
	OwnerID string
	Page    Page
}

// Page is a skip/limit window over a newest-first listing.
type Page struct {
	Skip  int
	Limit int
}
