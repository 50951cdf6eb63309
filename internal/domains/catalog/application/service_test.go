package application

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
)

type failingSource struct{}

func (failingSource) Items(context.Context) ([]domain.Item, error) {
	return nil, errors.New("boom")
}

func TestService_LookupAndList(t *testing.T) {
	svc, err := NewService(context.Background(), catalogmemory.NewCafeteriaSource())
	require.NoError(t, err)

	item, err := svc.Lookup(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "Sanduíche Natural", item.Name)
	require.Equal(t, "8", item.UnitPrice.String())

	_, err = svc.Lookup(context.Background(), 99)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.Len(t, slices.Collect(svc.List(context.Background(), "")), 6)
	require.Len(t, slices.Collect(svc.List(context.Background(), "suco")), 2)
}

func TestNewService_PropagatesSourceError(t *testing.T) {
	_, err := NewService(context.Background(), failingSource{})
	require.Error(t, err)
}
