package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deiondz/udal-gp/internal/models"
)

const userColumns = "id, email, password_hash, name, email_verified, image, role, banned, ban_reason, ban_expires, contact_details, created_at, updated_at"

// UserRepository provides database access for auth provider accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns users matching the query options with a total count.
func (r *UserRepository) List(ctx context.Context, q models.ListUsersQuery) ([]models.User, int, error) {
	baseQuery := `FROM users WHERE 1=1`
	var conditions []string
	var args []interface{}

	if q.SearchValue != "" {
		field := q.SearchField
		if field != "email" && field != "name" {
			field = "email"
		}
		pattern := "%" + strings.ToLower(q.SearchValue) + "%"
		switch q.SearchOperator {
		case "starts_with":
			pattern = strings.ToLower(q.SearchValue) + "%"
		case "ends_with":
			pattern = "%" + strings.ToLower(q.SearchValue)
		}
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE $%d", field, len(args)+1))
		args = append(args, pattern)
	}

	if q.FilterField != "" && q.FilterValue != "" {
		allowedFilters := map[string]bool{
			"role":           true,
			"banned":         true,
			"email_verified": true,
			"name":           true,
			"email":          true,
		}
		operators := map[string]string{
			"eq":  "=",
			"ne":  "<>",
			"lt":  "<",
			"lte": "<=",
			"gt":  ">",
			"gte": ">=",
		}
		op, ok := operators[q.FilterOperator]
		if !ok {
			op = "="
		}
		if allowedFilters[q.FilterField] {
			conditions = append(conditions, fmt.Sprintf("%s::text %s $%d", q.FilterField, op, len(args)+1))
			args = append(args, q.FilterValue)
		}
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := q.SortBy
	allowedSorts := map[string]bool{
		"email":      true,
		"name":       true,
		"role":       true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortDirection, "asc") {
		direction = "ASC"
	}

	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", userColumns, baseQuery, sortBy, direction, limit, offset)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, name, email_verified, image, role, banned, ban_reason, ban_expires, contact_details, created_at, updated_at) VALUES (:id, :email, :password_hash, :name, :email_verified, :image, :role, :banned, :ban_reason, :ban_expires, :contact_details, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update persists mutable account fields.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET email = :email, name = :name, role = :role, contact_details = :contact_details, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetRole updates the account role.
func (r *UserRepository) SetRole(ctx context.Context, id string, role models.UserRole) error {
	const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, role, time.Now().UTC()); err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	return nil
}

// SetBan writes the ban flag with its reason and expiry.
func (r *UserRepository) SetBan(ctx context.Context, id string, banned bool, reason *string, expires *time.Time) error {
	const query = `UPDATE users SET banned = $2, ban_reason = $3, ban_expires = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, banned, reason, expires, time.Now().UTC()); err != nil {
		return fmt.Errorf("set user ban: %w", err)
	}
	return nil
}

// Delete removes an account permanently.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
