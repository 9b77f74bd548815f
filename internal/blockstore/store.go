// Package blockstore persists the set of blocked sender ids. Membership is
// boolean: a row exists iff the sender is blocked. No metadata, no TTL.
package blockstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type BlockedUser struct {
	UserID int64 `gorm:"primaryKey;column:user_id"`
}

func (BlockedUser) TableName() string {
	return "blocked_users"
}

type Store struct {
	gdb *gorm.DB
}

// Open opens (or creates) the sqlite block list at path and migrates the
// schema. A single connection with WAL and a busy timeout serializes writes,
// so concurrent block/unblock calls for one id resolve to the last writer.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("missing block store path")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open block store %s: %w", path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("block store pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if err := gdb.AutoMigrate(&BlockedUser{}); err != nil {
		return nil, fmt.Errorf("migrate block store: %w", err)
	}
	return &Store{gdb: gdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.gdb == nil {
		return nil
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsBlocked is total: unknown ids are simply not blocked.
func (s *Store) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := s.gdb.WithContext(ctx).
		Model(&BlockedUser{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("block store lookup %d: %w", userID, err)
	}
	return count > 0, nil
}

// Block inserts userID into the block list. Blocking an already-blocked id is
// a no-op, never an error.
func (s *Store) Block(ctx context.Context, userID int64) error {
	err := s.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&BlockedUser{UserID: userID}).Error
	if err != nil {
		return fmt.Errorf("block store insert %d: %w", userID, err)
	}
	return nil
}

// Unblock removes userID from the block list and reports whether a removal
// occurred; false means the id was not blocked.
func (s *Store) Unblock(ctx context.Context, userID int64) (bool, error) {
	res := s.gdb.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&BlockedUser{})
	if res.Error != nil {
		return false, fmt.Errorf("block store delete %d: %w", userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// List returns all blocked ids in ascending order, for the operator CLI.
func (s *Store) List(ctx context.Context) ([]int64, error) {
	var rows []BlockedUser
	err := s.gdb.WithContext(ctx).
		Order("user_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("block store list: %w", err)
	}
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.UserID)
	}
	return out, nil
}
