// Package sections provides identity-preserving operations on the ordered
// item lists of a résumé document.
package sections

import (
	"errors"
	"fmt"
	"slices"
)

// ErrItemNotFound is returned when no item carries the requested identifier.
var ErrItemNotFound = errors.New("item not found")

// Item is the constraint satisfied by pointers to every list element type.
type Item[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// Find returns the index of the item with the given id, or -1.
func Find[T any, PT Item[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(it T) bool {
		return PT(&it).GetID() == id
	})
}

// Append adds item at the end of the list. It fails when the item has no id
// or the id is already taken.
func Append[T any, PT Item[T]](items *[]T, item T) error {
	id := PT(&item).GetID()
	if id == "" {
		return errors.New("item has no id")
	}
	if Find[T, PT](*items, id) >= 0 {
		return fmt.Errorf("item %q already exists", id)
	}
	*items = append(*items, item)
	return nil
}

// Replace swaps the item that shares item's id, keeping its position.
func Replace[T any, PT Item[T]](items *[]T, item T) error {
	id := PT(&item).GetID()
	i := Find[T, PT](*items, id)
	if i < 0 {
		return fmt.Errorf("failed to replace %q: %w", id, ErrItemNotFound)
	}
	(*items)[i] = item
	return nil
}

// Remove deletes the item with the given id.
func Remove[T any, PT Item[T]](items *[]T, id string) error {
	i := Find[T, PT](*items, id)
	if i < 0 {
		return fmt.Errorf("failed to remove %q: %w", id, ErrItemNotFound)
	}
	*items = slices.Delete(*items, i, i+1)
	return nil
}

// Move relocates the item with the given id so that it ends up at index to.
// to is clamped to the list bounds.
func Move[T any, PT Item[T]](items *[]T, id string, to int) error {
	from := Find[T, PT](*items, id)
	if from < 0 {
		return fmt.Errorf("failed to move %q: %w", id, ErrItemNotFound)
	}
	to = max(0, min(to, len(*items)-1))
	if from == to {
		return nil
	}
	item := (*items)[from]
	*items = slices.Delete(*items, from, from+1)
	*items = slices.Insert(*items, to, item)
	return nil
}

// IDs returns the identifiers of items in order.
func IDs[T any, PT Item[T]](items []T) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = PT(&items[i]).GetID()
	}
	return ids
}
