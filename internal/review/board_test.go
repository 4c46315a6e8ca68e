package review

import (
	"context"
	"errors"
	"sync"
	"testing"

	"investportal/internal/api"
	"investportal/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type fakeBackend struct {
	mu         sync.Mutex
	apps       map[string]*types.Application
	order      []string
	fetches    int
	updates    []api.StatusUpdate
	updateErr  error
	lastBearer string
}

func newFakeBackend(apps ...*types.Application) *fakeBackend {
	fb := &fakeBackend{apps: map[string]*types.Application{}}
	for _, a := range apps {
		fb.apps[a.ID] = a
		fb.order = append(fb.order, a.ID)
	}
	return fb
}

func (f *fakeBackend) Applications(_ context.Context, creds api.Credentials) ([]*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetches++
	f.lastBearer = creds.Token

	out := make([]*types.Application, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.apps[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeBackend) UpdateApplicationStatus(_ context.Context, _ api.Credentials, id string, update api.StatusUpdate) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return nil, f.updateErr
	}

	app, ok := f.apps[id]
	if !ok {
		return nil, &api.Error{StatusCode: 404, Message: "Investment not found"}
	}

	f.updates = append(f.updates, update)
	app.Status = update.Status
	app.Notes = update.Notes
	cp := *app
	return &cp, nil
}

func sampleApplications() []*types.Application {
	return []*types.Application{
		{ID: "abc123", Type: types.ApplicationTypeInvestor, Name: "Jane Doe", Email: "jane@x.com", Phone: "+251911111111", CompanyName: strPtr("Acme Capital"), Status: types.ApplicationStatusPending},
		{ID: "def456", Type: types.ApplicationTypeStrategicPartner, Name: "Abebe Kebede", Email: "abebe@partner.et", Phone: "+251922000000", Status: types.ApplicationStatusApproved},
		{ID: "ghi789", Type: types.ApplicationTypeSponsorship, Name: "Sara", Email: "sara@sponsor.com", Phone: "+251933000000", CompanyName: strPtr("ACME Events"), Status: types.ApplicationStatusPending},
		{ID: "jkl012", Type: types.ApplicationTypeInvestor, Name: "Tomas", Email: "tomas@fund.io", Phone: "+251944000000", Status: types.ApplicationStatusRejected},
	}
}

func ids(apps []*types.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestFilter_Compose(t *testing.T) {
	apps := sampleApplications()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty matches all", Filter{}, []string{"abc123", "def456", "ghi789", "jkl012"}},
		{"search company case-insensitive", Filter{Search: "acme"}, []string{"abc123", "ghi789"}},
		{"search phone", Filter{Search: "922000"}, []string{"def456"}},
		{"search email", Filter{Search: "FUND.IO"}, []string{"jkl012"}},
		{"status only", Filter{Status: types.ApplicationStatusPending}, []string{"abc123", "ghi789"}},
		{"type only", Filter{Type: types.ApplicationTypeInvestor}, []string{"abc123", "jkl012"}},
		{"search and status", Filter{Search: "acme", Status: types.ApplicationStatusPending}, []string{"abc123", "ghi789"}},
		{"search and type", Filter{Search: "acme", Type: types.ApplicationTypeSponsorship}, []string{"ghi789"}},
		{"status and type", Filter{Status: types.ApplicationStatusRejected, Type: types.ApplicationTypeInvestor}, []string{"jkl012"}},
		{"all three no match", Filter{Search: "jane", Status: types.ApplicationStatusApproved}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(apps, tt.filter)))
		})
	}
}

func TestFilter_MatchIsConjunction(t *testing.T) {
	apps := sampleApplications()
	filters := []Filter{
		{Search: "a"},
		{Search: "a", Status: types.ApplicationStatusPending},
		{Search: "+2519", Type: types.ApplicationTypeInvestor, Status: types.ApplicationStatusPending},
	}

	for _, f := range filters {
		for _, app := range apps {
			searchOnly := Filter{Search: f.Search}.Match(app)
			selectors := Filter{Status: f.Status, Type: f.Type}.Match(app)
			assert.Equal(t, searchOnly && selectors, f.Match(app), "app %s filter %+v", app.ID, f)
		}
	}
}

func TestBoard_TransitionRefetches(t *testing.T) {
	backend := newFakeBackend(sampleApplications()...)
	board := NewBoard(backend)
	ctx := context.Background()
	creds := api.Credentials{Token: "admin-token"}

	require.NoError(t, board.Refresh(ctx, creds))
	assert.Equal(t, 1, backend.fetches)

	require.NoError(t, board.Transition(ctx, creds, "abc123", types.ApplicationStatusApproved, "Looks good"))
	assert.Equal(t, 2, backend.fetches)
	assert.Equal(t, "admin-token", backend.lastBearer)

	app, err := board.Find("abc123")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusApproved, app.Status)
	require.NotNil(t, app.Notes)
	assert.Equal(t, "Looks good", *app.Notes)

	pending := board.Visible(Filter{Status: types.ApplicationStatusPending})
	assert.NotContains(t, ids(pending), "abc123")
}

func TestBoard_TransitionRejectsUnknownStatus(t *testing.T) {
	backend := newFakeBackend(sampleApplications()...)
	board := NewBoard(backend)

	err := board.Transition(context.Background(), api.Credentials{}, "abc123", "archived", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, backend.updates)
	assert.Zero(t, backend.fetches)
}

func TestBoard_TransitionFailureSkipsRefetch(t *testing.T) {
	backend := newFakeBackend(sampleApplications()...)
	backend.updateErr = &api.Error{StatusCode: 401, Message: "Unauthorized"}
	board := NewBoard(backend)

	err := board.Transition(context.Background(), api.Credentials{}, "abc123", types.ApplicationStatusReviewed, "")
	require.Error(t, err)

	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Zero(t, backend.fetches)
}

func TestBoard_EmptyNotesOmitted(t *testing.T) {
	backend := newFakeBackend(sampleApplications()...)
	board := NewBoard(backend)

	require.NoError(t, board.Transition(context.Background(), api.Credentials{}, "def456", types.ApplicationStatusReviewed, "  "))
	require.Len(t, backend.updates, 1)
	assert.Nil(t, backend.updates[0].Notes)
}

func TestBoard_DetailSeedsNotes(t *testing.T) {
	apps := sampleApplications()
	apps[1].Notes = strPtr("Call back Monday")
	board := NewBoard(newFakeBackend(apps...))
	require.NoError(t, board.Refresh(context.Background(), api.Credentials{}))

	d, err := board.Detail("def456")
	require.NoError(t, err)
	assert.Equal(t, "Call back Monday", d.Notes)

	d, err = board.Detail("abc123")
	require.NoError(t, err)
	assert.Empty(t, d.Notes)

	_, err = board.Detail("missing")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestBoard_Counts(t *testing.T) {
	board := NewBoard(newFakeBackend(sampleApplications()...))
	require.NoError(t, board.Refresh(context.Background(), api.Credentials{}))

	counts := board.Counts()
	assert.Equal(t, 2, counts[types.ApplicationStatusPending])
	assert.Equal(t, 1, counts[types.ApplicationStatusApproved])
	assert.Equal(t, 1, counts[types.ApplicationStatusRejected])
	assert.Zero(t, counts[types.ApplicationStatusReviewed])
}
