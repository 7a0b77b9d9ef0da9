package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atendesk/helpdesk/internal/domain"
)

// UserListOptions captures listing parameters for the back-office user
// table. SortBy is validated against userSortColumns.
type UserListOptions struct {
	SortBy     string
	Direction  string
	SearchTerm string
}

// userSortColumns is the allow-list for user listings. The sectors key
// sorts by the alphabetically first sector a user belongs to; users
// without any sector sort last regardless of direction.
var userSortColumns = map[string]SortColumn{
	"id":         {Expression: "u.id"},
	"username":   {Expression: "u.username"},
	"first_name": {Expression: "u.first_name"},
	"last_name":  {Expression: "u.last_name"},
	"email":      {Expression: "u.email"},
	"admin":      {Expression: "u.admin"},
	"sectors":    {Expression: "MIN(s.name)", NullsLast: true},
}

// UserRepository encapsulates user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, opts UserListOptions) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO users (username, first_name, last_name, email, password_hash, admin)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	if err := tx.QueryRow(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Admin,
	).Scan(&user.ID); err != nil {
		return err
	}
	if err := replaceUserSectors(ctx, tx, user.ID, user.SectorIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE users SET username=$1, first_name=$2, last_name=$3, email=$4, admin=$5
        WHERE id=$6`
	cmd, err := tx.Exec(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Admin,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if err := replaceUserSectors(ctx, tx, user.ID, user.SectorIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceUserSectors(ctx context.Context, tx pgx.Tx, userID int64, sectorIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_sectors WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, sectorID := range sectorIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_sectors (user_id, sector_id) VALUES ($1,$2)`,
			userID, sectorID); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const userSelect = `
        SELECT u.id, u.username, u.first_name, u.last_name, u.email, u.password_hash, u.admin,
               COALESCE(ARRAY_AGG(s.id ORDER BY s.id) FILTER (WHERE s.id IS NOT NULL), '{}') AS sector_ids
        FROM users u
        LEFT JOIN user_sectors us ON us.user_id = u.id
        LEFT JOIN sectors s ON s.id = us.sector_id`

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchSingle(ctx, userSelect+` WHERE u.id=$1 GROUP BY u.id`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.fetchSingle(ctx, userSelect+` WHERE u.username=$1 GROUP BY u.id`, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, userSelect+` WHERE u.email=$1 GROUP BY u.id`, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Admin,
		&user.SectorIDs,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users sorted and filtered per options. The search term
// matches username, first name, last name and email case-insensitively.
func (r *userRepository) List(ctx context.Context, opts UserListOptions) ([]domain.User, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if term := strings.TrimSpace(opts.SearchTerm); term != "" {
		args = append(args, "%"+term+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(u.username ILIKE %[1]s OR u.first_name ILIKE %[1]s OR u.last_name ILIKE %[1]s OR u.email ILIKE %[1]s)",
			placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s GROUP BY u.id %s`,
		userSelect,
		strings.Join(clauses, " AND "),
		OrderClause(userSortColumns, opts.SortBy, opts.Direction, "u.id"))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.PasswordHash,
			&user.Admin,
			&user.SectorIDs,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
