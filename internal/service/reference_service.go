package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// ReferenceService implements the back-office panels for sectors,
// subjects, statuses and priorities. Mutations require an admin
// principal; listings are available to any authenticated user since the
// ticket form needs them.
type ReferenceService struct {
	sectors    repository.SectorRepository
	subjects   repository.SubjectRepository
	statuses   repository.StatusRepository
	priorities repository.PriorityRepository
}

// NewReferenceService creates the service.
func NewReferenceService(
	sectors repository.SectorRepository,
	subjects repository.SubjectRepository,
	statuses repository.StatusRepository,
	priorities repository.PriorityRepository,
) *ReferenceService {
	return &ReferenceService{
		sectors:    sectors,
		subjects:   subjects,
		statuses:   statuses,
		priorities: priorities,
	}
}

const defaultColor = "#2C2C2C"

// ListSectors returns sectors sorted per options.
func (s *ReferenceService) ListSectors(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Sector, error) {
	sectors, err := s.sectors.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sectors, nil
}

// CreateSector adds a sector with a unique name.
func (s *ReferenceService) CreateSector(ctx context.Context, p domain.Principal, name, color string) (*domain.Sector, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if color == "" {
		color = defaultColor
	}
	sector := &domain.Sector{Name: name, Color: color}
	if err := s.sectors.Create(ctx, sector); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sector, nil
}

// UpdateSector renames/recolors a sector.
func (s *ReferenceService) UpdateSector(ctx context.Context, p domain.Principal, id int64, name, color string) (*domain.Sector, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	sector, err := s.sectors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sector", map[string]any{"sector_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		sector.Name = name
	}
	if color != "" {
		sector.Color = color
	}
	if err := s.sectors.Update(ctx, sector); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sector, nil
}

// DeleteSector removes a sector.
func (s *ReferenceService) DeleteSector(ctx context.Context, p domain.Principal, id int64) error {
	if !p.Admin {
		return apperrors.NewForbidden("access denied")
	}
	return mapDelete(s.sectors.Delete(ctx, id), "sector", id)
}

// ListSubjects returns subjects sorted per options.
func (s *ReferenceService) ListSubjects(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Subject, error) {
	subjects, err := s.subjects.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return subjects, nil
}

// SubjectsForSector returns the subjects offered for a sector, feeding
// the ticket form.
func (s *ReferenceService) SubjectsForSector(ctx context.Context, sectorID int64) ([]domain.Subject, error) {
	if _, err := s.sectors.GetByID(ctx, sectorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sector", map[string]any{"sector_id": sectorID})
		}
		return nil, apperrors.MapError(err)
	}
	subjects, err := s.subjects.ListBySector(ctx, sectorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return subjects, nil
}

// CreateSubject adds a subject scoped to the given sectors.
func (s *ReferenceService) CreateSubject(ctx context.Context, p domain.Principal, name string, sectorIDs []int64) (*domain.Subject, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	subject := &domain.Subject{Name: name}
	if err := s.subjects.Create(ctx, subject, sectorIDs); err != nil {
		return nil, apperrors.MapError(err)
	}
	return subject, nil
}

// UpdateSubject renames a subject and replaces its sector scoping.
func (s *ReferenceService) UpdateSubject(ctx context.Context, p domain.Principal, id int64, name string, sectorIDs []int64) (*domain.Subject, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subject", map[string]any{"subject_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		subject.Name = name
	}
	if err := s.subjects.Update(ctx, subject, sectorIDs); err != nil {
		return nil, apperrors.MapError(err)
	}
	return subject, nil
}

// DeleteSubject removes a subject.
func (s *ReferenceService) DeleteSubject(ctx context.Context, p domain.Principal, id int64) error {
	if !p.Admin {
		return apperrors.NewForbidden("access denied")
	}
	return mapDelete(s.subjects.Delete(ctx, id), "subject", id)
}

// ListStatuses returns statuses sorted per options.
func (s *ReferenceService) ListStatuses(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Status, error) {
	statuses, err := s.statuses.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}

// CreateStatus adds a status row with an explicit lifecycle kind.
func (s *ReferenceService) CreateStatus(ctx context.Context, p domain.Principal, name, symbol string, kind domain.StatusKind) (*domain.Status, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown status kind", map[string]any{"kind": string(kind)})
	}
	status := &domain.Status{Name: name, Symbol: symbol, Kind: kind}
	if err := s.statuses.Create(ctx, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// UpdateStatus edits a status row. Renaming is safe: lifecycle logic
// binds to the kind.
func (s *ReferenceService) UpdateStatus(ctx context.Context, p domain.Principal, id int64, name, symbol string, kind domain.StatusKind) (*domain.Status, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("status", map[string]any{"status_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		status.Name = name
	}
	if symbol != "" {
		status.Symbol = symbol
	}
	if kind != "" {
		if !kind.Valid() {
			return nil, apperrors.NewValidationError("unknown status kind", map[string]any{"kind": string(kind)})
		}
		status.Kind = kind
	}
	if err := s.statuses.Update(ctx, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// DeleteStatus removes a status row.
func (s *ReferenceService) DeleteStatus(ctx context.Context, p domain.Principal, id int64) error {
	if !p.Admin {
		return apperrors.NewForbidden("access denied")
	}
	return mapDelete(s.statuses.Delete(ctx, id), "status", id)
}

// ListPriorities returns priorities sorted per options.
func (s *ReferenceService) ListPriorities(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Priority, error) {
	priorities, err := s.priorities.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return priorities, nil
}

// CreatePriority adds a priority row.
func (s *ReferenceService) CreatePriority(ctx context.Context, p domain.Principal, name, color string) (*domain.Priority, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if color == "" {
		color = defaultColor
	}
	priority := &domain.Priority{Name: name, Color: color}
	if err := s.priorities.Create(ctx, priority); err != nil {
		return nil, apperrors.MapError(err)
	}
	return priority, nil
}

// UpdatePriority edits a priority row.
func (s *ReferenceService) UpdatePriority(ctx context.Context, p domain.Principal, id int64, name, color string) (*domain.Priority, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	priority, err := s.priorities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("priority", map[string]any{"priority_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		priority.Name = name
	}
	if color != "" {
		priority.Color = color
	}
	if err := s.priorities.Update(ctx, priority); err != nil {
		return nil, apperrors.MapError(err)
	}
	return priority, nil
}

// DeletePriority removes a priority row.
func (s *ReferenceService) DeletePriority(ctx context.Context, p domain.Principal, id int64) error {
	if !p.Admin {
		return apperrors.NewForbidden("access denied")
	}
	return mapDelete(s.priorities.Delete(ctx, id), "priority", id)
}

func mapDelete(err error, resource string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
