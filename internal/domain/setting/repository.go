package setting

import "context"

type SettingRepository interface {
	// GetValue returns ErrSettingNotFound when the key has never been configured.
	GetValue(ctx context.Context, key string) (Setting, error)
}

// SettingSeeder writes a setting only when the key is not configured yet.
type SettingSeeder interface {
	InsertIfAbsent(ctx context.Context, s Setting) (bool, error)
}
