package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
)

type settingRepositoryImpl struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) setting.SettingRepository {
	return &settingRepositoryImpl{db: db}
}

func NewSettingSeeder(db *database.DB) setting.SettingSeeder {
	return &settingRepositoryImpl{db: db}
}

// GetValue implements setting.SettingRepository.
func (r *settingRepositoryImpl) GetValue(ctx context.Context, key string) (setting.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT key, value, description, updated_by, updated_at FROM settings WHERE key = $1`

	var s setting.Setting
	err := q.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return setting.Setting{}, setting.ErrSettingNotFound
		}
		return setting.Setting{}, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return s, nil
}

// InsertIfAbsent implements setting.SettingSeeder.
func (r *settingRepositoryImpl) InsertIfAbsent(ctx context.Context, s setting.Setting) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (key, value, description, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, s.Key, s.Value, s.Description, s.UpdatedBy)
	if err != nil {
		return false, fmt.Errorf("failed to seed setting %s: %w", s.Key, err)
	}
	return tag.RowsAffected() == 1, nil
}
