package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/models"
)

func (r *GormRepo) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("create user: invalid role %d", in.Role)
	}

	pwHash, err := r.Hasher.HashPassword(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := models.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         in.Role,
	}
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (r *GormRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormRepo) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// UpdateProfile writes only the fields set in upd and returns the resulting row.
func (r *GormRepo) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	fields := map[string]any{}
	if upd.Firstname != nil {
		fields["firstname"] = *upd.Firstname
	}
	if upd.Lastname != nil {
		fields["lastname"] = *upd.Lastname
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.ProfilePicture != nil {
		fields["profile_picture"] = *upd.ProfilePicture
	}
	if upd.Password != nil {
		pwHash, err := r.Hasher.HashPassword(ctx, *upd.Password)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		fields["password"] = pwHash
	}

	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperr.ErrNotFound
		case isUniqueViolation(err):
			return nil, apperr.ErrDuplicateEmail
		default:
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return &user, nil
}

// RecordLogin stamps the login time and bumps the counter, treating a missing counter as zero.
func (r *GormRepo) RecordLogin(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"last_login":  time.Now().UTC(),
		"login_count": gorm.Expr("COALESCE(login_count, 0) + 1"),
	})
	if res.Error != nil {
		return fmt.Errorf("record login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Search lists users whose names or email contain query, case-insensitively, ordered by id.
func (r *GormRepo) Search(ctx context.Context, query string, from, size int) (int64, []models.User, error) {
	query = strings.TrimSpace(query)
	scope := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.User{})
		if query == "" {
			return q
		}
		like := "%" + escapeLike(strings.ToLower(query)) + "%"
		return q.Where(
			"LOWER(firstname) LIKE ? ESCAPE '\\' OR LOWER(lastname) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'",
			like, like, like,
		)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("count users: %w", err)
	}

	users := []models.User{}
	if err := scope().Order("id").Offset(from).Limit(size).Find(&users).Error; err != nil {
		return 0, nil, fmt.Errorf("list users: %w", err)
	}
	return total, users, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
