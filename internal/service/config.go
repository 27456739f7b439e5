package service

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	ConfigAPIURL              = "api_url"
	ConfigTimeout             = "timeout"
	ConfigPaymentCallbackBase = "payment_callback_base"
	ConfigDefaultPlan         = "default_plan"
)

var configValidators = map[string]func(string) error{
	ConfigAPIURL:              validateHTTPURL,
	ConfigPaymentCallbackBase: validateHTTPURL,
	ConfigTimeout: func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration like 15s")
		}
		return nil
	},
	ConfigDefaultPlan: func(v string) error {
		if _, ok := PlanByID(v); !ok {
			return fmt.Errorf("default_plan must be monthly or yearly")
		}
		return nil
	},
}

// ConfigKeys lists the settable keys in display order.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configValidators))
	for k := range configValidators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// configKey normalizes key and rejects names that are not settable.
func configKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", fmt.Errorf("config key is required")
	}
	if _, ok := configValidators[key]; !ok {
		return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return key, nil
}

func SetConfig(db *sql.DB, key, value string) error {
	key, err := configKey(key)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if err := configValidators[key](value); err != nil {
		return err
	}
	const upsert = `INSERT INTO app_config(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := db.Exec(upsert, key, value); err != nil {
		return fmt.Errorf("save config %s: %w", key, err)
	}
	return nil
}

// GetConfig reports ok=false for a key that was never set.
func GetConfig(db *sql.DB, key string) (value string, ok bool, err error) {
	if key, err = configKey(key); err != nil {
		return "", false, err
	}
	switch err = db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read config %s: %w", key, err)
	}
	return value, true, nil
}

func UnsetConfig(db *sql.DB, key string) error {
	key, err := configKey(key)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM app_config WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove config %s: %w", key, err)
	}
	return nil
}

// ListConfig returns every stored key. Rows left by older versions under
// keys that are no longer settable are skipped.
func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config`)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer rows.Close()

	cfg := make(map[string]string, len(configValidators))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if _, known := configValidators[k]; known {
			cfg[k] = v
		}
	}
	return cfg, rows.Err()
}

// Resolve picks the first non-empty value: flag, then env, then the stored
// config key, then fallback.
func Resolve(db *sql.DB, key, flagValue, envValue, fallback string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	if db != nil {
		v, ok, err := GetConfig(db, key)
		if err != nil {
			return "", err
		}
		if ok && v != "" {
			return v, nil
		}
	}
	return fallback, nil
}

func validateHTTPURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q must be an http(s) URL", v)
	}
	return nil
}
