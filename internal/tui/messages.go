package tui

import (
	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/entities"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + domain.Message(e.Err)
	}
	return domain.Message(e.Err)
}

// PageLoadedMsg carries one page of the instrument list.
type PageLoadedMsg struct {
	Page    domain.Page[domain.Instrument]
	Options domain.ListOptions
}

// DetailLoadedMsg carries an instrument with its relations.
type DetailLoadedMsg struct {
	ID     int64
	Detail domain.InstrumentWithRelations
}

// ReferenceLoadedMsg carries the reference lists.
type ReferenceLoadedMsg struct {
	Snapshot entities.Snapshot
}

// SearchAppliedMsg signals that the debounced search term changed.
type SearchAppliedMsg struct {
	Term string
}

// ToastsReadyMsg signals that notifications are waiting in the queue.
type ToastsReadyMsg struct{}

// DeletedMsg signals that an instrument was deleted.
type DeletedMsg struct {
	ID int64
}

// RefetchedMsg signals that a background refetch of the reference lists settled.
type RefetchedMsg struct{}

// TickMsg drives toast expiry
type TickMsg struct{}
