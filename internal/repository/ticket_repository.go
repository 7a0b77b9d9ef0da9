package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atendesk/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters. Scope fields combine with
// AND; a nil/empty field applies no restriction.
type TicketFilter struct {
	// CreatorOrAssigneeID restricts to tickets the user created or is
	// assigned to ("my tickets" scope).
	CreatorOrAssigneeID *int64
	// SectorIDs restricts to tickets whose sector is in the set.
	SectorIDs []int64
	// StatusIDs restricts to tickets whose status is in the set.
	StatusIDs []int64
	// SearchTerm matches title and description case-insensitively.
	SearchTerm string
	SortBy     string
	Direction  string
	Limit      int
	Offset     int
}

// ticketSortColumns is the allow-list for ticket listings. Related-name
// keys sort through the joined reference tables.
var ticketSortColumns = map[string]SortColumn{
	"id":         {Expression: "t.id"},
	"title":      {Expression: "t.title"},
	"created_at": {Expression: "t.created_at"},
	"sector":     {Expression: "sec.name"},
	"subject":    {Expression: "sub.name"},
	"creator":    {Expression: "cu.username"},
	"status":     {Expression: "st.name"},
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// AssignIfUnassigned atomically claims the ticket for assigneeID,
	// stamping assigned_at and moving it to statusID. Returns false
	// without touching the row when an assignee already exists.
	AssignIfUnassigned(ctx context.Context, ticketID, assigneeID, statusID int64) (bool, error)
	SetStatus(ctx context.Context, ticketID, statusID int64, closedAt *time.Time) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByCreator(ctx context.Context, creatorID int64, statusIDs []int64) (int64, error)
	CountByAssignee(ctx context.Context, assigneeID int64, statusIDs []int64) (int64, error)
	CountBySectors(ctx context.Context, sectorIDs, statusIDs []int64) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, creator_id, sector_id, subject_id, status_id, priority_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CreatorID,
		ticket.SectorID,
		ticket.SubjectID,
		ticket.StatusID,
		ticket.PriorityID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, sector_id=$3, subject_id=$4,
            status_id=$5, priority_id=$6, closed_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.SectorID,
		ticket.SubjectID,
		ticket.StatusID,
		ticket.PriorityID,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const ticketColumns = `t.id, t.title, t.description, t.creator_id, t.assignee_id, t.sector_id,
               t.subject_id, t.status_id, t.priority_id, t.created_at, t.assigned_at, t.updated_at, t.closed_at`

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t WHERE t.id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.SectorID,
		&ticket.SubjectID,
		&ticket.StatusID,
		&ticket.PriorityID,
		&ticket.CreatedAt,
		&ticket.AssignedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) AssignIfUnassigned(ctx context.Context, ticketID, assigneeID, statusID int64) (bool, error) {
	const query = `
        UPDATE tickets SET assignee_id=$1, assigned_at=NOW(), status_id=$2, updated_at=NOW()
        WHERE id=$3 AND assignee_id IS NULL`
	cmd, err := r.pool.Exec(ctx, query, assigneeID, statusID, ticketID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) SetStatus(ctx context.Context, ticketID, statusID int64, closedAt *time.Time) error {
	const query = `
        UPDATE tickets SET status_id=$1, closed_at=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, statusID, closedAt, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s
             FROM tickets t
             JOIN sectors sec ON sec.id = t.sector_id
             JOIN subjects sub ON sub.id = t.subject_id
             JOIN statuses st ON st.id = t.status_id
             JOIN users cu ON cu.id = t.creator_id`, ticketColumns)

	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorOrAssigneeID != nil {
		args = append(args, *filter.CreatorOrAssigneeID)
		clauses = append(clauses, fmt.Sprintf("(t.creator_id=$%[1]d OR t.assignee_id=$%[1]d)", len(args)))
	}
	if len(filter.SectorIDs) > 0 {
		args = append(args, filter.SectorIDs)
		clauses = append(clauses, fmt.Sprintf("t.sector_id = ANY($%d)", len(args)))
	}
	if len(filter.StatusIDs) > 0 {
		args = append(args, filter.StatusIDs)
		clauses = append(clauses, fmt.Sprintf("t.status_id = ANY($%d)", len(args)))
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		args = append(args, "%"+term+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(t.title ILIKE %[1]s OR t.description ILIKE %[1]s)", placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s %s`,
		base,
		strings.Join(clauses, " AND "),
		OrderClause(ticketSortColumns, filter.SortBy, filter.Direction, "t.id"))

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByCreator(ctx context.Context, creatorID int64, statusIDs []int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE creator_id=$1 AND status_id = ANY($2)`
	var count int64
	err := r.pool.QueryRow(ctx, query, creatorID, statusIDs).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountByAssignee(ctx context.Context, assigneeID int64, statusIDs []int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE assignee_id=$1 AND status_id = ANY($2)`
	var count int64
	err := r.pool.QueryRow(ctx, query, assigneeID, statusIDs).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountBySectors(ctx context.Context, sectorIDs, statusIDs []int64) (int64, error) {
	if len(sectorIDs) == 0 {
		return 0, nil
	}
	const query = `SELECT COUNT(*) FROM tickets WHERE sector_id = ANY($1) AND status_id = ANY($2)`
	var count int64
	err := r.pool.QueryRow(ctx, query, sectorIDs, statusIDs).Scan(&count)
	return count, err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.CreatorID,
			&ticket.AssigneeID,
			&ticket.SectorID,
			&ticket.SubjectID,
			&ticket.StatusID,
			&ticket.PriorityID,
			&ticket.CreatedAt,
			&ticket.AssignedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
