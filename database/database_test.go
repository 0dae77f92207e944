package database

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/observability"
)

type row struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func openMemory(t *testing.T, log *logger.Logger) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:", LogLevel: "info"}, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestConfig_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantOpen int
	}{
		{name: "file", cfg: Config{}, wantOpen: 10},
		{name: "memory", cfg: Config{DSN: ":memory:", MaxOpenConns: 8}, wantOpen: 1},
		{name: "shared memory", cfg: Config{DSN: "file:t?mode=memory&cache=shared"}, wantOpen: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if cfg.MaxOpenConns != tt.wantOpen {
				t.Errorf("MaxOpenConns = %d, want %d", cfg.MaxOpenConns, tt.wantOpen)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		c := Config{DSN: "file:x.db"}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty dsn", mutate: func(c *Config) { c.DSN = "" }},
		{name: "idle above open", mutate: func(c *Config) { c.MaxIdleConns = c.MaxOpenConns + 1 }},
		{name: "bad lifetime", mutate: func(c *Config) { c.ConnMaxLifetime = "forever" }},
		{name: "bad slow threshold", mutate: func(c *Config) { c.SlowQueryThreshold = "x" }},
		{name: "no retries", mutate: func(c *Config) { c.MaxRetries = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOpen_MigrateAndQuery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug"}, "test", &buf)
	db := openMemory(t, log)

	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	ctx := context.Background()
	if err := db.WithContext(ctx).Create(&row{Name: "a"}).Error; err != nil {
		t.Fatal(err)
	}

	err := db.WithContext(ctx).Create(&row{Name: "a"}).Error
	if !IsDuplicateError(err) {
		t.Errorf("duplicate insert err = %v, want gorm.ErrDuplicatedKey", err)
	}

	var got row
	err = db.WithContext(ctx).Where("name = ?", "missing").First(&got).Error
	if !IsNotFoundError(err) {
		t.Errorf("err = %v, want record not found", err)
	}

	if !strings.Contains(buf.String(), `"component":"gorm"`) {
		t.Errorf("queries should be logged by the gorm component: %s", buf.String())
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Open(ctx, Config{DSN: ":memory:"}, logger.Nop()); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestDB_CheckHealth(t *testing.T) {
	db := openMemory(t, logger.Nop())
	if h := db.CheckHealth(context.Background()); h.Status != observability.HealthStatusUp {
		t.Errorf("health = %+v", h)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if h := db.CheckHealth(context.Background()); h.Status != observability.HealthStatusDown {
		t.Errorf("health after close = %+v", h)
	}
}

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		retryable bool
	}{
		{name: "not found", err: gorm.ErrRecordNotFound, code: apperrors.ErrCodeNotFound},
		{name: "duplicate", err: gorm.ErrDuplicatedKey, code: apperrors.ErrCodeAlreadyExists},
		{name: "locked", err: stderrors.New("database is locked"), code: apperrors.ErrCodeDatabaseError, retryable: true},
		{name: "other", err: stderrors.New("no such table: principals"), code: apperrors.ErrCodeDatabaseError, retryable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDatabase(tt.err, "principal")
			if got.Code != tt.code {
				t.Errorf("Code = %s, want %s", got.Code, tt.code)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
		})
	}
	if FromDatabase(nil, "x") != nil {
		t.Error("nil error should map to nil")
	}
}

func TestGormLogger_SlowQuery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug"}, "test", &buf)
	gl := newGormLogger(log, time.Millisecond, parseLogLevel("warn"))

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)
	if !strings.Contains(buf.String(), "Slow query") {
		t.Errorf("log = %s", buf.String())
	}

	buf.Reset()
	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Errorf("record-not-found should not be logged at warn: %s", buf.String())
	}
}
