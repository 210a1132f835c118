package service

import (
	"context"
	"errors"
	"testing"

	"github.com/contactportal/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCounterContributor struct {
	names       []string
	prepareFunc func(ctx context.Context, user *model.User, counters []string) (map[string]int, error)
}

func (m *mockCounterContributor) PrepareCounters(ctx context.Context, user *model.User, counters []string) (map[string]int, error) {
	return m.prepareFunc(ctx, user, counters)
}

func (m *mockCounterContributor) Counters() []string { return m.names }

func TestPortalHomeService_Counters_MergesRequested(t *testing.T) {
	dir := directory()
	alice := userFor(dir, 2, 2, model.GroupPortal)
	contacts := newContactPortalService(dir, nil)
	skipped := &mockCounterContributor{
		names: []string{"invoice_count"},
		prepareFunc: func(context.Context, *model.User, []string) (map[string]int, error) {
			t.Fatal("contributor without requested counters must not be asked")
			return nil, nil
		},
	}
	svc := NewPortalHomeService(contacts, skipped)

	got, err := svc.Counters(context.Background(), alice, []string{ContactCountCounter, "unknown"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{ContactCountCounter: 2}, got)
}

func TestPortalHomeService_Counters_NoneRequested(t *testing.T) {
	dir := directory()
	svc := NewPortalHomeService(newContactPortalService(dir, nil))

	got, err := svc.Counters(context.Background(), userFor(dir, 2, 2, model.GroupPortal), nil)
	require.NoError(t, err)

	assert.Empty(t, got)
}

func TestPortalHomeService_Counters_PropagatesError(t *testing.T) {
	failing := &mockCounterContributor{
		names: []string{"x"},
		prepareFunc: func(context.Context, *model.User, []string) (map[string]int, error) {
			return nil, errors.New("boom")
		},
	}
	svc := NewPortalHomeService(failing)

	_, err := svc.Counters(context.Background(), nil, []string{"x"})

	assert.Error(t, err)
}

func TestPortalHomeService_HomeValues(t *testing.T) {
	dir := directory()
	alice := userFor(dir, 2, 2, model.GroupPortal)
	svc := NewPortalHomeService(newContactPortalService(dir, nil))

	values := svc.HomeValues(alice)

	assert.Equal(t, "home", values.PageName)
	assert.Same(t, alice, values.User)
	assert.Equal(t, []string{ContactCountCounter}, values.Counters)
}
