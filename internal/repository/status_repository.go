package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atendesk/helpdesk/internal/domain"
)

// StatusRepository manages lifecycle statuses. Lifecycle lookups go
// through kinds so that renaming a status row cannot change behavior.
type StatusRepository interface {
	Create(ctx context.Context, status *domain.Status) error
	Update(ctx context.Context, status *domain.Status) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
	GetByKind(ctx context.Context, kind domain.StatusKind) (*domain.Status, error)
	IDsByKinds(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error)
	IDsExcludingKinds(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error)
	List(ctx context.Context, opts ReferenceListOptions) ([]domain.Status, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) Create(ctx context.Context, status *domain.Status) error {
	const query = `INSERT INTO statuses (name, symbol, kind) VALUES ($1,$2,$3) RETURNING id`
	return r.pool.QueryRow(ctx, query, status.Name, status.Symbol, status.Kind).Scan(&status.ID)
}

func (r *statusRepository) Update(ctx context.Context, status *domain.Status) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE statuses SET name=$1, symbol=$2, kind=$3 WHERE id=$4`,
		status.Name, status.Symbol, status.Kind, status.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *statusRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM statuses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	var status domain.Status
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, symbol, kind FROM statuses WHERE id=$1`, id,
	).Scan(&status.ID, &status.Name, &status.Symbol, &status.Kind)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetByKind returns the lowest-id status of the given kind. Seed data
// has exactly one status per kind; lowest-id keeps the choice stable if
// an admin adds more.
func (r *statusRepository) GetByKind(ctx context.Context, kind domain.StatusKind) (*domain.Status, error) {
	var status domain.Status
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, symbol, kind FROM statuses WHERE kind=$1 ORDER BY id ASC LIMIT 1`, kind,
	).Scan(&status.ID, &status.Name, &status.Symbol, &status.Kind)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) IDsByKinds(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error) {
	return r.queryIDs(ctx, `SELECT id FROM statuses WHERE kind = ANY($1) ORDER BY id`, kinds)
}

func (r *statusRepository) IDsExcludingKinds(ctx context.Context, kinds ...domain.StatusKind) ([]int64, error) {
	return r.queryIDs(ctx, `SELECT id FROM statuses WHERE NOT (kind = ANY($1)) ORDER BY id`, kinds)
}

func (r *statusRepository) queryIDs(ctx context.Context, query string, kinds []domain.StatusKind) ([]int64, error) {
	values := make([]string, len(kinds))
	for i, kind := range kinds {
		values[i] = string(kind)
	}
	rows, err := r.pool.Query(ctx, query, values)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *statusRepository) List(ctx context.Context, opts ReferenceListOptions) ([]domain.Status, error) {
	query := fmt.Sprintf(`SELECT id, name, symbol, kind FROM statuses %s`,
		OrderClause(referenceSortColumns, opts.SortBy, opts.Direction, "id"))
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name, &status.Symbol, &status.Kind); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}
