package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"investportal/internal/api"
	"investportal/internal/utils"
	"investportal/pkg/types"
)

var (
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrApplicationNotFound = errors.New("application not found")
)

// Backend is the part of the API client the board needs.
type Backend interface {
	Applications(ctx context.Context, creds api.Credentials) ([]*types.Application, error)
	UpdateApplicationStatus(ctx context.Context, creds api.Credentials, id string, update api.StatusUpdate) (*types.Application, error)
}

// Board holds a fetched copy of every application for one admin view. The
// copy is only ever replaced wholesale by Refresh; mutations never patch it.
type Board struct {
	backend Backend

	mu   sync.RWMutex
	apps []*types.Application
}

func NewBoard(backend Backend) *Board {
	return &Board{backend: backend}
}

// Refresh fetches the full collection and replaces the held copy.
func (b *Board) Refresh(ctx context.Context, creds api.Credentials) error {
	apps, err := b.backend.Applications(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to fetch applications: %w", err)
	}

	b.mu.Lock()
	b.apps = apps
	b.mu.Unlock()

	return nil
}

func (b *Board) All() []*types.Application {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*types.Application, len(b.apps))
	copy(out, b.apps)
	return out
}

func (b *Board) Visible(f Filter) []*types.Application {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Apply(b.apps, f)
}

// Counts returns how many held applications are in each status.
func (b *Board) Counts() map[types.ApplicationStatus]int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	counts := make(map[types.ApplicationStatus]int, len(types.AllApplicationStatuses))
	for _, app := range b.apps {
		counts[app.Status]++
	}
	return counts
}

func (b *Board) Find(id string) (*types.Application, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, app := range b.apps {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, ErrApplicationNotFound
}

// Detail is the state of the detail panel for one application. Notes starts
// from the record's current notes.
type Detail struct {
	Application *types.Application
	Notes       string
}

func (b *Board) Detail(id string) (*Detail, error) {
	app, err := b.Find(id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Application: app}
	if app.Notes != nil {
		d.Notes = *app.Notes
	}
	return d, nil
}

// Transition sets the status and notes of one application and then refetches
// the whole collection, whether or not the held copy would have changed.
// Overlapping transitions are not serialised; the last response wins once
// the following refetch lands.
func (b *Board) Transition(ctx context.Context, creds api.Credentials, id string, status types.ApplicationStatus, notes string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	update := api.StatusUpdate{Status: status}
	if notes = strings.TrimSpace(notes); notes != "" {
		update.Notes = utils.StringPtr(notes)
	}

	if _, err := b.backend.UpdateApplicationStatus(ctx, creds, id, update); err != nil {
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}

	return b.Refresh(ctx, creds)
}
