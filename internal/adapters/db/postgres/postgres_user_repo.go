package postgres

import (
	"context"
	"errors"

	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "CreateUser")
	}
	return user, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return p.first(ctx, "email = ?", email)
}

func (p *PostgresUserRepo) GetUserByPhone(ctx context.Context, phone string) (model.User, error) {
	return p.first(ctx, "phone = ? AND phone <> ''", phone)
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return p.first(ctx, "id = ?", id)
}

func (p *PostgresUserRepo) first(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where(query, args...).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUser")
	}
	return u, nil
}

func (p *PostgresUserRepo) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	res := p.db.WithContext(ctx).Save(&user)
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateUser")
	}
	return user, nil
}

func (p *PostgresUserRepo) ListUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var total int64
	if err := p.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListUsers")
	}

	var users []model.User
	res := p.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users)
	if err := res.Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListUsers")
	}

	return users, total, nil
}
