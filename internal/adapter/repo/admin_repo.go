package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"kovil/internal/domain"
	"kovil/internal/infra"
	"kovil/internal/sqlinline"
)

const adminUsernameConstraint = "admins_username_key"

// AdminRepositoryPG implements domain.AdminRepository backed by PostgreSQL.
type AdminRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAdminRepository creates a new AdminRepositoryPG.
func NewAdminRepository(sql infra.SQLExecutor) *AdminRepositoryPG {
	return &AdminRepositoryPG{sql: sql}
}

// GetByUsername fetches an admin by username, ignoring case.
func (r *AdminRepositoryPG) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return scanAdmin(r.sql.QueryRow(ctx, sqlinline.QSelectAdminByUsername, username))
}

// List returns every admin in creation order.
func (r *AdminRepositoryPG) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAdmins)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var items []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(adminDest(&a)...); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Insert creates admin unless the username is taken. It reports whether a row was written.
func (r *AdminRepositoryPG) Insert(ctx context.Context, admin *domain.Admin) (bool, error) {
	var createdAt time.Time
	err := r.sql.QueryRow(ctx, sqlinline.QInsertAdmin, admin.ID, admin.Username, admin.PasswordHash, string(admin.Role)).Scan(&createdAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert admin: %w", err)
	}
	admin.CreatedAt = createdAt
	admin.UpdatedAt = createdAt
	return true, nil
}

// UpdateCredentials replaces username and password hash.
func (r *AdminRepositoryPG) UpdateCredentials(ctx context.Context, id, username, passwordHash string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateAdminCredentials, id, username, passwordHash)
	if err != nil {
		if infra.IsUniqueViolation(err, adminUsernameConstraint) {
			return fmt.Errorf("username %q is taken: %w", username, domain.ErrInvalidCredentials)
		}
		return fmt.Errorf("update admin credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AdminRepositoryPG) TouchLogin(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QTouchAdminLogin, id)
	return err
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var a domain.Admin
	if err := row.Scan(adminDest(&a)...); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func adminDest(a *domain.Admin) []any {
	return []any{
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		(*string)(&a.Role),
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.LastLoginAt,
	}
}

var _ domain.AdminRepository = (*AdminRepositoryPG)(nil)
