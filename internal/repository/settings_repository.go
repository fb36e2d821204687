package repository

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SettingsRepo reads and writes the portal_settings key-value table.
// Values are read fresh from the database on each evaluation; a short
// Redis read-through cache sits in front and is invalidated on every
// write, so a settings change is visible to the next evaluation.  A nil
// Redis client disables the cache entirely.
type SettingsRepo struct {
	db  *sql.DB
	rdb *redis.Client
}

// NewSettingsRepo returns a new SettingsRepo.  rdb may be nil.
func NewSettingsRepo(db *sql.DB, rdb *redis.Client) *SettingsRepo {
	return &SettingsRepo{db: db, rdb: rdb}
}

const settingsCacheTTL = time.Minute

func settingsCacheKey(key string) string { return "portal_settings:" + key }

// GetInt returns the integer value stored under key, or def when the key
// is missing or not a valid integer.
func (r *SettingsRepo) GetInt(ctx context.Context, key string, def int) (int, error) {
	if r.rdb != nil {
		if cached, err := r.rdb.Get(ctx, settingsCacheKey(key)).Result(); err == nil {
			if n, err := strconv.Atoi(cached); err == nil {
				return n, nil
			}
		}
	}
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT setting_value FROM portal_settings WHERE setting_key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return def, nil
	}
	if r.rdb != nil {
		if err := r.rdb.Set(ctx, settingsCacheKey(key), raw, settingsCacheTTL).Err(); err != nil {
			log.Printf("settings: cache set failed for %s: %v", key, err)
		}
	}
	return n, nil
}

// SetInt upserts the value stored under key and drops the cache entry so
// the next read sees the new value.
func (r *SettingsRepo) SetInt(ctx context.Context, key string, value int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO portal_settings (setting_key, setting_value) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`,
		key, strconv.Itoa(value))
	if err != nil {
		return err
	}
	if r.rdb != nil {
		if err := r.rdb.Del(ctx, settingsCacheKey(key)).Err(); err != nil {
			log.Printf("settings: cache invalidate failed for %s: %v", key, err)
		}
	}
	return nil
}
