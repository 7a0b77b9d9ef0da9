package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/events"
	"github.com/atendesk/helpdesk/internal/repository"
)

type mockTicketRepo struct {
	CreateFunc             func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc             func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFunc            func(ctx context.Context, id int64) (*domain.Ticket, error)
	AssignIfUnassignedFunc func(ctx context.Context, ticketID, assigneeID, statusID int64) (bool, error)
	SetStatusFunc          func(ctx context.Context, ticketID, statusID int64, closedAt *time.Time) error
	ListFunc               func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	CountByCreatorFunc     func(ctx context.Context, creatorID int64, statusIDs []int64) (int64, error)
	CountByAssigneeFunc    func(ctx context.Context, assigneeID int64, statusIDs []int64) (int64, error)
	CountBySectorsFunc     func(ctx context.Context, sectorIDs, statusIDs []int64) (int64, error)
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	ticket.ID = 1
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	return nil
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ticket)
	}
	return nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTicketRepo) AssignIfUnassigned(ctx context.Context, ticketID, assigneeID, statusID int64) (bool, error) {
	if m.AssignIfUnassignedFunc != nil {
		return m.AssignIfUnassignedFunc(ctx, ticketID, assigneeID, statusID)
	}
	return true, nil
}

func (m *mockTicketRepo) SetStatus(ctx context.Context, ticketID, statusID int64, closedAt *time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, ticketID, statusID, closedAt)
	}
	return nil
}

func (m *mockTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTicketRepo) CountByCreator(ctx context.Context, creatorID int64, statusIDs []int64) (int64, error) {
	if m.CountByCreatorFunc != nil {
		return m.CountByCreatorFunc(ctx, creatorID, statusIDs)
	}
	return 0, nil
}

func (m *mockTicketRepo) CountByAssignee(ctx context.Context, assigneeID int64, statusIDs []int64) (int64, error) {
	if m.CountByAssigneeFunc != nil {
		return m.CountByAssigneeFunc(ctx, assigneeID, statusIDs)
	}
	return 0, nil
}

func (m *mockTicketRepo) CountBySectors(ctx context.Context, sectorIDs, statusIDs []int64) (int64, error) {
	if m.CountBySectorsFunc != nil {
		return m.CountBySectorsFunc(ctx, sectorIDs, statusIDs)
	}
	return 0, nil
}

type mockMessageRepo struct {
	CreateFunc       func(ctx context.Context, msg *domain.TicketMessage) error
	ListByTicketFunc func(ctx context.Context, ticketID int64) ([]domain.TicketMessage, error)
	created          []domain.TicketMessage
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.TicketMessage) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	msg.ID = int64(len(m.created) + 1)
	msg.CreatedAt = time.Now()
	m.created = append(m.created, *msg)
	return nil
}

func (m *mockMessageRepo) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketMessage, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

// seededStatuses mirrors the default status rows shipped in the
// migrations, keyed by kind.
var seededStatuses = map[domain.StatusKind]*domain.Status{
	domain.StatusKindOpen:       {ID: 1, Name: "Aberto", Kind: domain.StatusKindOpen},
	domain.StatusKindWaiting:    {ID: 2, Name: "Aguardando", Kind: domain.StatusKindWaiting},
	domain.StatusKindInProgress: {ID: 3, Name: "Em Progresso", Kind: domain.StatusKindInProgress},
	domain.StatusKindEdited:     {ID: 4, Name: "Editado", Kind: domain.StatusKindEdited},
	domain.StatusKindResolved:   {ID: 5, Name: "Resolvido", Kind: domain.StatusKindResolved},
	domain.StatusKindClosed:     {ID: 6, Name: "Fechado", Kind: domain.StatusKindClosed},
}

type mockStatusRepo struct {
	CreateFunc            func(ctx context.Context, status *domain.Status) error
	UpdateFunc            func(ctx context.Context, status *domain.Status) error
	DeleteFunc            func(ctx context.Context, id int64) error
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Status, error)
	GetByKindFunc         func(ctx context.Context, kind domain.StatusKind) (*domain.Status, error)
	IDsByKindsFunc        func(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error)
	IDsExcludingKindsFunc func(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error)
	ListFunc              func(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Status, error)
}

func (m *mockStatusRepo) Create(ctx context.Context, status *domain.Status) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, status)
	}
	return nil
}

func (m *mockStatusRepo) Update(ctx context.Context, status *domain.Status) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, status)
	}
	return nil
}

func (m *mockStatusRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockStatusRepo) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	for _, status := range seededStatuses {
		if status.ID == id {
			copied := *status
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStatusRepo) GetByKind(ctx context.Context, kind domain.StatusKind) (*domain.Status, error) {
	if m.GetByKindFunc != nil {
		return m.GetByKindFunc(ctx, kind)
	}
	if status, ok := seededStatuses[kind]; ok {
		copied := *status
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStatusRepo) IDsByKinds(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error) {
	if m.IDsByKindsFunc != nil {
		return m.IDsByKindsFunc(ctx, kinds...)
	}
	ids := make([]int64, 0, len(kinds))
	for _, kind := range kinds {
		if status, ok := seededStatuses[kind]; ok {
			ids = append(ids, status.ID)
		}
	}
	return ids, nil
}

func (m *mockStatusRepo) IDsExcludingKinds(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error) {
	if m.IDsExcludingKindsFunc != nil {
		return m.IDsExcludingKindsFunc(ctx, kinds...)
	}
	excluded := make(map[domain.StatusKind]struct{}, len(kinds))
	for _, kind := range kinds {
		excluded[kind] = struct{}{}
	}
	var ids []int64
	for kind, status := range seededStatuses {
		if _, skip := excluded[kind]; !skip {
			ids = append(ids, status.ID)
		}
	}
	return ids, nil
}

func (m *mockStatusRepo) List(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Status, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

type mockSectorRepo struct {
	CreateFunc  func(ctx context.Context, sector *domain.Sector) error
	UpdateFunc  func(ctx context.Context, sector *domain.Sector) error
	DeleteFunc  func(ctx context.Context, id int64) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Sector, error)
	ListFunc    func(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Sector, error)
}

func (m *mockSectorRepo) Create(ctx context.Context, sector *domain.Sector) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sector)
	}
	sector.ID = 1
	return nil
}

func (m *mockSectorRepo) Update(ctx context.Context, sector *domain.Sector) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sector)
	}
	return nil
}

func (m *mockSectorRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSectorRepo) GetByID(ctx context.Context, id int64) (*domain.Sector, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Sector{ID: id, Name: "Suporte"}, nil
}

func (m *mockSectorRepo) List(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Sector, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

type mockSubjectRepo struct {
	CreateFunc          func(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error
	UpdateFunc          func(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error
	DeleteFunc          func(ctx context.Context, id int64) error
	GetByIDFunc         func(ctx context.Context, id int64) (*domain.Subject, error)
	ListFunc            func(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Subject, error)
	ListBySectorFunc    func(ctx context.Context, sectorID int64) ([]domain.Subject, error)
	BelongsToSectorFunc func(ctx context.Context, subjectID, sectorID int64) (bool, error)
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, subject, sectorIDs)
	}
	subject.ID = 1
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, subject, sectorIDs)
	}
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Subject{ID: id, Name: "Acesso"}, nil
}

func (m *mockSubjectRepo) List(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Subject, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockSubjectRepo) ListBySector(ctx context.Context, sectorID int64) ([]domain.Subject, error) {
	if m.ListBySectorFunc != nil {
		return m.ListBySectorFunc(ctx, sectorID)
	}
	return nil, nil
}

func (m *mockSubjectRepo) BelongsToSector(ctx context.Context, subjectID, sectorID int64) (bool, error) {
	if m.BelongsToSectorFunc != nil {
		return m.BelongsToSectorFunc(ctx, subjectID, sectorID)
	}
	return true, nil
}

type mockPriorityRepo struct {
	CreateFunc  func(ctx context.Context, priority *domain.Priority) error
	UpdateFunc  func(ctx context.Context, priority *domain.Priority) error
	DeleteFunc  func(ctx context.Context, id int64) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Priority, error)
	ListFunc    func(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Priority, error)
}

func (m *mockPriorityRepo) Create(ctx context.Context, priority *domain.Priority) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, priority)
	}
	priority.ID = 1
	return nil
}

func (m *mockPriorityRepo) Update(ctx context.Context, priority *domain.Priority) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, priority)
	}
	return nil
}

func (m *mockPriorityRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPriorityRepo) GetByID(ctx context.Context, id int64) (*domain.Priority, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Priority{ID: id, Name: "Baixa"}, nil
}

func (m *mockPriorityRepo) List(ctx context.Context, opts repository.ReferenceListOptions) ([]domain.Priority, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

type mockUserRepo struct {
	CreateFunc             func(ctx context.Context, user *domain.User) error
	UpdateFunc             func(ctx context.Context, user *domain.User) error
	DeleteFunc             func(ctx context.Context, id int64) error
	GetByIDFunc            func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFunc      func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHashFunc func(ctx context.Context, id int64, hash string) error
	ListFunc               func(ctx context.Context, opts repository.UserListOptions) ([]domain.User, error)
	CountFunc              func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, opts repository.UserListOptions) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// capturingDispatcher records published events for assertions.
type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}
