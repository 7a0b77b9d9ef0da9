package service

import (
	"context"

	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// ListParams carries the sort/search request parameters for listings.
// Validation against the allow-lists happens in the repository layer.
type ListParams struct {
	SortBy     string
	Direction  string
	SearchTerm string
	Limit      int
	Offset     int
}

// DashboardCounters are the three per-request aggregates shown on a
// user's dashboard. They are recomputed on every call, never cached.
type DashboardCounters struct {
	OpenCreated    int64
	AssignedActive int64
	SectorOpen     int64
}

// DashboardService produces the ticket listings and counters for the
// dashboard views.
type DashboardService struct {
	tickets  repository.TicketRepository
	statuses repository.StatusRepository
}

// NewDashboardService constructs the service.
func NewDashboardService(tickets repository.TicketRepository, statuses repository.StatusRepository) *DashboardService {
	return &DashboardService{tickets: tickets, statuses: statuses}
}

// ListMine returns tickets created by or assigned to the principal.
func (s *DashboardService) ListMine(ctx context.Context, p domain.Principal, params ListParams) ([]domain.Ticket, error) {
	userID := p.ID
	filter := repository.TicketFilter{
		CreatorOrAssigneeID: &userID,
		SearchTerm:          params.SearchTerm,
		SortBy:              params.SortBy,
		Direction:           params.Direction,
		Limit:               params.Limit,
		Offset:              params.Offset,
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListSectorQueue returns open and waiting tickets in the principal's
// sectors. A user without sectors gets an empty queue.
func (s *DashboardService) ListSectorQueue(ctx context.Context, p domain.Principal, params ListParams) ([]domain.Ticket, error) {
	if len(p.SectorIDs) == 0 {
		return []domain.Ticket{}, nil
	}
	statusIDs, err := s.statuses.IDsByKinds(ctx, domain.StatusKindOpen, domain.StatusKindWaiting)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	filter := repository.TicketFilter{
		SectorIDs:  p.SectorIDs,
		StatusIDs:  statusIDs,
		SearchTerm: params.SearchTerm,
		SortBy:     params.SortBy,
		Direction:  params.Direction,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAll returns every ticket. Admin only.
func (s *DashboardService) ListAll(ctx context.Context, p domain.Principal, params ListParams) ([]domain.Ticket, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	filter := repository.TicketFilter{
		SearchTerm: params.SearchTerm,
		SortBy:     params.SortBy,
		Direction:  params.Direction,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Counters computes the three dashboard aggregates: tickets the user
// created that are not yet resolved, tickets assigned to the user still
// being worked, and open/waiting tickets in the user's sectors.
func (s *DashboardService) Counters(ctx context.Context, p domain.Principal) (*DashboardCounters, error) {
	counters := &DashboardCounters{}

	notResolved, err := s.statuses.IDsExcludingKinds(ctx, domain.StatusKindResolved)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	counters.OpenCreated, err = s.tickets.CountByCreator(ctx, p.ID, notResolved)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	working, err := s.statuses.IDsByKinds(ctx, domain.StatusKindInProgress, domain.StatusKindEdited)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	counters.AssignedActive, err = s.tickets.CountByAssignee(ctx, p.ID, working)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if len(p.SectorIDs) > 0 {
		open, err := s.statuses.IDsByKinds(ctx, domain.StatusKindOpen, domain.StatusKindWaiting)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		counters.SectorOpen, err = s.tickets.CountBySectors(ctx, p.SectorIDs, open)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	return counters, nil
}
