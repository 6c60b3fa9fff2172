// Package policy holds the ownership guard: a pure decision over who may do
// what to a loaded user or book.
package policy

import (
	"go-book-library/internal/model"
	"go-book-library/pkg/apierror"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type ResourceKind string

const (
	ResourceUser ResourceKind = "user"
	ResourceBook ResourceKind = "book"
)

// Resource is the part of a record the guard looks at. For a user, OwnerID
// is the user's own id.
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

func UserResource(u model.User) Resource {
	return Resource{Kind: ResourceUser, OwnerID: u.ID}
}

func BookResource(b model.Book) Resource {
	return Resource{Kind: ResourceBook, OwnerID: b.OwnerID}
}

// Collection is used for list and create, where no record is loaded yet.
func Collection(kind ResourceKind) Resource {
	return Resource{Kind: kind}
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err is nil for allowed decisions and a Forbidden error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apierror.Forbidden(d.Reason)
}

func Authorize(identity model.Identity, resource Resource, action Action) Decision {
	if identity.SubjectID == "" {
		return deny("Authentication required")
	}

	switch resource.Kind {
	case ResourceBook:
		return authorizeBook(identity, resource, action)
	case ResourceUser:
		return authorizeUser(identity, resource, action)
	default:
		return deny("Unknown resource")
	}
}

func authorizeBook(identity model.Identity, resource Resource, action Action) Decision {
	switch action {
	case ActionRead, ActionList, ActionCreate:
		return allow()
	case ActionUpdate, ActionDelete:
		if resource.OwnerID != "" && resource.OwnerID == identity.SubjectID {
			return allow()
		}
		return deny("You are not allowed to modify this book")
	default:
		return deny("Unsupported action")
	}
}

// Users are created only through registration, never through the guard.
func authorizeUser(identity model.Identity, resource Resource, action Action) Decision {
	switch action {
	case ActionList:
		return allow()
	case ActionRead, ActionUpdate, ActionDelete:
		if resource.OwnerID != "" && resource.OwnerID == identity.SubjectID {
			return allow()
		}
		return deny("You are not allowed to access this user")
	default:
		return deny("Unsupported action")
	}
}
