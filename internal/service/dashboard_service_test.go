package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

func TestListMineScopesToPrincipal(t *testing.T) {
	var captured repository.TicketFilter
	tickets := &mockTicketRepo{
		ListFunc: func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
			captured = filter
			return []domain.Ticket{{ID: 1}}, nil
		},
	}
	svc := NewDashboardService(tickets, &mockStatusRepo{})

	got, err := svc.ListMine(context.Background(), domain.Principal{ID: 7}, ListParams{
		SortBy:    "created_at",
		Direction: "desc",
		Limit:     20,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NotNil(t, captured.CreatorOrAssigneeID)
	assert.Equal(t, int64(7), *captured.CreatorOrAssigneeID)
	assert.Empty(t, captured.SectorIDs)
	assert.Equal(t, "created_at", captured.SortBy)
	assert.Equal(t, 20, captured.Limit)
}

func TestListSectorQueueFiltersOpenAndWaiting(t *testing.T) {
	var captured repository.TicketFilter
	tickets := &mockTicketRepo{
		ListFunc: func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
			captured = filter
			return nil, nil
		},
	}
	svc := NewDashboardService(tickets, &mockStatusRepo{})

	member := domain.Principal{ID: 11, SectorIDs: []int64{2, 4}}
	_, err := svc.ListSectorQueue(context.Background(), member, ListParams{})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 4}, captured.SectorIDs)
	assert.ElementsMatch(t, []int64{1, 2}, captured.StatusIDs)
	assert.Nil(t, captured.CreatorOrAssigneeID)
}

func TestListSectorQueueEmptyWithoutSectors(t *testing.T) {
	listCalled := false
	tickets := &mockTicketRepo{
		ListFunc: func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
			listCalled = true
			return nil, nil
		},
	}
	svc := NewDashboardService(tickets, &mockStatusRepo{})

	got, err := svc.ListSectorQueue(context.Background(), domain.Principal{ID: 11}, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, listCalled, "queue query should be skipped for users without sectors")
}

func TestListAllRequiresAdmin(t *testing.T) {
	svc := NewDashboardService(&mockTicketRepo{}, &mockStatusRepo{})

	_, err := svc.ListAll(context.Background(), domain.Principal{ID: 11}, ListParams{})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	_, err = svc.ListAll(context.Background(), domain.Principal{ID: 99, Admin: true}, ListParams{})
	require.NoError(t, err)
}

func TestCountersUseLifecycleKinds(t *testing.T) {
	var creatorStatuses, assigneeStatuses, sectorStatuses []int64
	tickets := &mockTicketRepo{
		CountByCreatorFunc: func(ctx context.Context, creatorID int64, statusIDs []int64) (int64, error) {
			creatorStatuses = statusIDs
			return 3, nil
		},
		CountByAssigneeFunc: func(ctx context.Context, assigneeID int64, statusIDs []int64) (int64, error) {
			assigneeStatuses = statusIDs
			return 2, nil
		},
		CountBySectorsFunc: func(ctx context.Context, sectorIDs, statusIDs []int64) (int64, error) {
			sectorStatuses = statusIDs
			return 5, nil
		},
	}
	svc := NewDashboardService(tickets, &mockStatusRepo{})

	member := domain.Principal{ID: 11, SectorIDs: []int64{2}}
	counters, err := svc.Counters(context.Background(), member)
	require.NoError(t, err)

	assert.Equal(t, int64(3), counters.OpenCreated)
	assert.Equal(t, int64(2), counters.AssignedActive)
	assert.Equal(t, int64(5), counters.SectorOpen)

	// created counter excludes only the resolved kind
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 6}, creatorStatuses)
	// assigned counter covers the in-progress and edited kinds
	assert.ElementsMatch(t, []int64{3, 4}, assigneeStatuses)
	// sector counter covers the open and waiting kinds
	assert.ElementsMatch(t, []int64{1, 2}, sectorStatuses)
}

func TestCountersSkipSectorCountWithoutSectors(t *testing.T) {
	sectorCounted := false
	tickets := &mockTicketRepo{
		CountBySectorsFunc: func(ctx context.Context, sectorIDs, statusIDs []int64) (int64, error) {
			sectorCounted = true
			return 9, nil
		},
	}
	svc := NewDashboardService(tickets, &mockStatusRepo{})

	counters, err := svc.Counters(context.Background(), domain.Principal{ID: 7})
	require.NoError(t, err)

	assert.Zero(t, counters.SectorOpen)
	assert.False(t, sectorCounted)
}
