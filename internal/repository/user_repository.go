package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,membership,role,created_at"

// UpsertAdmin creates an ADMIN user or, when the email already exists,
// promotes it and resets its password.  Returns the stored row.
func (r *UserRepo) UpsertAdmin(ctx context.Context, name, email, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, membership, role) VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE name=VALUES(name), password_hash=VALUES(password_hash), role=VALUES(role)`,
		strings.TrimSpace(name), email, hash, string(model.TierMember), model.RoleAdmin)
	if err != nil {
		return model.User{}, err
	}
	return r.GetByEmail(ctx, email)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u          model.User
		membership string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &membership, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Membership = model.ParseMembershipTier(membership)
	return u, nil
}
