package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/instrumenta/internal/entities"
	"github.com/mmcdole/instrumenta/internal/instruments"
	"github.com/mmcdole/instrumenta/internal/notify"
)

// Command factories for async operations

const requestTimeout = 30 * time.Second

// LoadPageCmd loads the paginator's current page.
func LoadPageCmd(p *instruments.Paginator) tea.Cmd {
	opts := p.Options()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := p.Load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading instruments"}
		}
		return PageLoadedMsg{Page: page, Options: opts}
	}
}

// LoadDetailCmd loads an instrument with its relations.
func LoadDetailCmd(svc *instruments.Service, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		detail, err := svc.WithRelations(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading instrument"}
		}
		return DetailLoadedMsg{ID: id, Detail: detail}
	}
}

// LoadReferenceCmd loads the five reference lists.
func LoadReferenceCmd(svc *entities.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ReferenceLoadedMsg{Snapshot: svc.All(ctx)}
	}
}

// RefetchReferenceCmd reloads the reference lists in the background.
func RefetchReferenceCmd(svc *entities.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		<-svc.RefetchAll(context.Background())
		return RefetchedMsg{}
	}
}

// DeleteCmd deletes an instrument.
func DeleteCmd(svc *instruments.Service, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting instrument"}
		}
		return DeletedMsg{ID: id}
	}
}

// WaitForSearchCmd blocks until the next debounced term.
func WaitForSearchCmd(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		term, ok := <-ch
		if !ok {
			return nil
		}
		return SearchAppliedMsg{Term: term}
	}
}

// WaitForToastsCmd blocks until the queue has notifications.
func WaitForToastsCmd(q *notify.Queue) tea.Cmd {
	if q == nil {
		return nil
	}
	return func() tea.Msg {
		<-q.Ready()
		return ToastsReadyMsg{}
	}
}

// TickCmd creates a tick command
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
