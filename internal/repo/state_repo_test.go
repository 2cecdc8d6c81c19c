package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

func newStateDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("state_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if migrate {
		if err := db.AutoMigrate(&domain.StateEntry{}); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestStateStore_Get_MissingKeyIsNotAnError(t *testing.T) {
	s := NewStateStore(newStateDB(t, true))

	val, found, err := s.Get(context.Background(), "never_written")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found || val != nil {
		t.Fatalf("Get = (%q, %v); want miss", val, found)
	}
}

func TestStateStore_PutThenGet_RoundTrips(t *testing.T) {
	s := NewStateStore(newStateDB(t, true))
	ctx := context.Background()

	if err := s.Put(ctx, "daily_quota", []byte(`{"count":3,"date":"2026-4-3"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	val, found, err := s.Get(ctx, "daily_quota")
	if err != nil || !found {
		t.Fatalf("Get = (found=%v, err=%v); want hit", found, err)
	}
	if string(val) != `{"count":3,"date":"2026-4-3"}` {
		t.Fatalf("value = %s", val)
	}
}

func TestStateStore_Put_ReplacesExistingValue(t *testing.T) {
	s := NewStateStore(newStateDB(t, true))
	ctx := context.Background()

	if err := s.Put(ctx, "saved_trips", []byte(`[]`)); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := s.Put(ctx, "saved_trips", []byte(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	val, found, err := s.Get(ctx, "saved_trips")
	if err != nil || !found {
		t.Fatalf("Get = (found=%v, err=%v); want hit", found, err)
	}
	if string(val) != `[{"id":"t1"}]` {
		t.Fatalf("value = %s; want the replacement", val)
	}

	var n int64
	if err := s.db.Model(&domain.StateEntry{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d; upsert must not duplicate the key", n)
	}
}

func TestStateStore_KeysAreIndependent(t *testing.T) {
	s := NewStateStore(newStateDB(t, true))
	ctx := context.Background()

	if err := s.Put(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := s.Put(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("Put b: %v", err)
	}

	va, _, _ := s.Get(ctx, "a")
	vb, _, _ := s.Get(ctx, "b")
	if string(va) != "1" || string(vb) != "2" {
		t.Fatalf("values = %s, %s", va, vb)
	}
}

func TestStateStore_Errors_NoTable(t *testing.T) {
	s := NewStateStore(newStateDB(t, false /* no migrations */))
	ctx := context.Background()

	if _, _, err := s.Get(ctx, "k"); err == nil {
		t.Fatalf("expected error reading without table")
	}
	if err := s.Put(ctx, "k", []byte("v")); err == nil {
		t.Fatalf("expected error writing without table")
	}
}
