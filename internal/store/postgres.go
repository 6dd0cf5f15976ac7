package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nightcouncil/mafia/internal/game"
)

// roomRecord is the persisted shape of a room: the lifecycle fields the sweep
// query needs as columns, the full Room document as jsonb.
type roomRecord struct {
	Code         string     `gorm:"primaryKey;size:8"`
	Status       string     `gorm:"index;not null"`
	PhaseEndTime *time.Time `gorm:"index"`
	Version      uint64     `gorm:"not null"`
	Payload      []byte     `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (roomRecord) TableName() string { return "rooms" }

// PostgresStore keeps rooms in postgres, one row per room, with the version
// column as the optimistic concurrency token.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&roomRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate rooms table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(room *game.Room) error {
	rec, err := encodeRoom(room, 1)
	if err != nil {
		return err
	}
	if err := s.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (s *PostgresStore) Get(code string) (*game.Room, uint64, error) {
	var rec roomRecord
	if err := s.db.First(&rec, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	var room game.Room
	if err := json.Unmarshal(rec.Payload, &room); err != nil {
		return nil, 0, fmt.Errorf("failed to decode room %s: %w", code, err)
	}
	return &room, rec.Version, nil
}

func (s *PostgresStore) Update(room *game.Room, expectedVersion uint64) error {
	rec, err := encodeRoom(room, expectedVersion+1)
	if err != nil {
		return err
	}
	res := s.db.Model(&roomRecord{}).
		Where("code = ? AND version = ?", room.Code, expectedVersion).
		Updates(map[string]any{
			"status":         rec.Status,
			"phase_end_time": rec.PhaseEndTime,
			"version":        rec.Version,
			"payload":        rec.Payload,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&roomRecord{}).Where("code = ?", room.Code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *PostgresStore) ExpiredActive(now time.Time) ([]string, error) {
	var codes []string
	err := s.db.Model(&roomRecord{}).
		Where("status = ? AND phase_end_time IS NOT NULL AND phase_end_time <= ?", string(game.StatusActive), now).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func encodeRoom(room *game.Room, version uint64) (*roomRecord, error) {
	payload, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("failed to encode room %s: %w", room.Code, err)
	}
	return &roomRecord{
		Code:         room.Code,
		Status:       string(room.Status),
		PhaseEndTime: room.State.PhaseEndTime,
		Version:      version,
		Payload:      payload,
	}, nil
}
