package repository

import (
	"context"
	"time"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// RefreshTokenRepository persists issued refresh tokens. A token with no row
// (deleted or never issued) is revoked.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByJTI(ctx context.Context, jti string) (*models.RefreshToken, error)
	DeleteByJTI(ctx context.Context, jti string) error
	DeleteExpired(ctx context.Context) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *refreshTokenRepository) FindByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByJTI(ctx context.Context, jti string) error {
	if err := r.db.WithContext(ctx).Where("jti = ?", jti).Delete(&models.RefreshToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
