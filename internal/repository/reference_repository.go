package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atendesk/helpdesk/internal/domain"
)

// ReferenceListOptions captures sort parameters for reference tables.
type ReferenceListOptions struct {
	SortBy    string
	Direction string
}

var referenceSortColumns = map[string]SortColumn{
	"id":   {Expression: "id"},
	"name": {Expression: "name"},
}

// SectorRepository manages sectors and their subject associations.
type SectorRepository interface {
	Create(ctx context.Context, sector *domain.Sector) error
	Update(ctx context.Context, sector *domain.Sector) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Sector, error)
	List(ctx context.Context, opts ReferenceListOptions) ([]domain.Sector, error)
}

type sectorRepository struct {
	pool *pgxpool.Pool
}

// NewSectorRepository instantiates repository.
func NewSectorRepository(pool *pgxpool.Pool) SectorRepository {
	return &sectorRepository{pool: pool}
}

func (r *sectorRepository) Create(ctx context.Context, sector *domain.Sector) error {
	const query = `INSERT INTO sectors (name, color) VALUES ($1,$2) RETURNING id`
	return r.pool.QueryRow(ctx, query, sector.Name, sector.Color).Scan(&sector.ID)
}

func (r *sectorRepository) Update(ctx context.Context, sector *domain.Sector) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE sectors SET name=$1, color=$2 WHERE id=$3`,
		sector.Name, sector.Color, sector.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectorRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sectors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectorRepository) GetByID(ctx context.Context, id int64) (*domain.Sector, error) {
	var sector domain.Sector
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, color FROM sectors WHERE id=$1`, id,
	).Scan(&sector.ID, &sector.Name, &sector.Color)
	if err != nil {
		return nil, err
	}
	return &sector, nil
}

func (r *sectorRepository) List(ctx context.Context, opts ReferenceListOptions) ([]domain.Sector, error) {
	query := fmt.Sprintf(`SELECT id, name, color FROM sectors %s`,
		OrderClause(referenceSortColumns, opts.SortBy, opts.Direction, "id"))
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Sector
	for rows.Next() {
		var sector domain.Sector
		if err := rows.Scan(&sector.ID, &sector.Name, &sector.Color); err != nil {
			return nil, err
		}
		result = append(result, sector)
	}
	return result, rows.Err()
}

// SubjectRepository manages subjects and their sector scoping.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error
	Update(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)
	List(ctx context.Context, opts ReferenceListOptions) ([]domain.Subject, error)
	ListBySector(ctx context.Context, sectorID int64) ([]domain.Subject, error)
	BelongsToSector(ctx context.Context, subjectID, sectorID int64) (bool, error)
}

type subjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository instantiates repository.
func NewSubjectRepository(pool *pgxpool.Pool) SubjectRepository {
	return &subjectRepository{pool: pool}
}

func (r *subjectRepository) Create(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.QueryRow(ctx,
		`INSERT INTO subjects (name) VALUES ($1) RETURNING id`, subject.Name,
	).Scan(&subject.ID); err != nil {
		return err
	}
	if err := replaceSubjectSectors(ctx, tx, subject.ID, sectorIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *subjectRepository) Update(ctx context.Context, subject *domain.Subject, sectorIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE subjects SET name=$1 WHERE id=$2`, subject.Name, subject.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if err := replaceSubjectSectors(ctx, tx, subject.ID, sectorIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceSubjectSectors(ctx context.Context, tx pgx.Tx, subjectID int64, sectorIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM subject_sectors WHERE subject_id=$1`, subjectID); err != nil {
		return err
	}
	for _, sectorID := range sectorIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO subject_sectors (subject_id, sector_id) VALUES ($1,$2)`,
			subjectID, sectorID); err != nil {
			return err
		}
	}
	return nil
}

func (r *subjectRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	var subject domain.Subject
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM subjects WHERE id=$1`, id,
	).Scan(&subject.ID, &subject.Name)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) List(ctx context.Context, opts ReferenceListOptions) ([]domain.Subject, error) {
	query := fmt.Sprintf(`SELECT id, name FROM subjects %s`,
		OrderClause(referenceSortColumns, opts.SortBy, opts.Direction, "id"))
	return r.queryList(ctx, query)
}

func (r *subjectRepository) ListBySector(ctx context.Context, sectorID int64) ([]domain.Subject, error) {
	const query = `
        SELECT sub.id, sub.name
        FROM subjects sub
        JOIN subject_sectors ss ON ss.subject_id = sub.id
        WHERE ss.sector_id = $1
        ORDER BY sub.name ASC`
	return r.queryList(ctx, query, sectorID)
}

func (r *subjectRepository) BelongsToSector(ctx context.Context, subjectID, sectorID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subject_sectors WHERE subject_id=$1 AND sector_id=$2)`,
		subjectID, sectorID,
	).Scan(&exists)
	return exists, err
}

func (r *subjectRepository) queryList(ctx context.Context, query string, args ...any) ([]domain.Subject, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subject
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(&subject.ID, &subject.Name); err != nil {
			return nil, err
		}
		result = append(result, subject)
	}
	return result, rows.Err()
}

// PriorityRepository manages priorities.
type PriorityRepository interface {
	Create(ctx context.Context, priority *domain.Priority) error
	Update(ctx context.Context, priority *domain.Priority) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Priority, error)
	List(ctx context.Context, opts ReferenceListOptions) ([]domain.Priority, error)
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository instantiates repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

func (r *priorityRepository) Create(ctx context.Context, priority *domain.Priority) error {
	const query = `INSERT INTO priorities (name, color) VALUES ($1,$2) RETURNING id`
	return r.pool.QueryRow(ctx, query, priority.Name, priority.Color).Scan(&priority.ID)
}

func (r *priorityRepository) Update(ctx context.Context, priority *domain.Priority) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE priorities SET name=$1, color=$2 WHERE id=$3`,
		priority.Name, priority.Color, priority.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *priorityRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM priorities WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *priorityRepository) GetByID(ctx context.Context, id int64) (*domain.Priority, error) {
	var priority domain.Priority
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, color FROM priorities WHERE id=$1`, id,
	).Scan(&priority.ID, &priority.Name, &priority.Color)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *priorityRepository) List(ctx context.Context, opts ReferenceListOptions) ([]domain.Priority, error) {
	query := fmt.Sprintf(`SELECT id, name, color FROM priorities %s`,
		OrderClause(referenceSortColumns, opts.SortBy, opts.Direction, "id"))
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var priority domain.Priority
		if err := rows.Scan(&priority.ID, &priority.Name, &priority.Color); err != nil {
			return nil, err
		}
		result = append(result, priority)
	}
	return result, rows.Err()
}
