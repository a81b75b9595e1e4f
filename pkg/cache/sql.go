package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// PartCacheModel is the row layout of the SQL cache.
type PartCacheModel struct {
	ExternalID       string `gorm:"primaryKey"`
	SymbolName       string `gorm:"not null"`
	FootprintName    string
	FootprintLibrary string
	Value            string
	PinsJSON         string `gorm:"type:text"`
	SymbolFile       string
	FootprintFile    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PartCacheModel) TableName() string { return "part_cache" }

// SQLStore keeps cache entries in a SQLite database, which lets a team
// share one cache file.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Discard})
}

// NewSQLStore migrates the schema and returns a store backed by db.
func NewSQLStore(ctx context.Context, db *gorm.DB) (*SQLStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&PartCacheModel{}); err != nil {
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, id string) (Entry, bool, error) {
	key, err := NormalizeKey(id)
	if err != nil {
		return Entry{}, false, err
	}

	var m PartCacheModel
	err = s.db.WithContext(ctx).Where("external_id = ?", key).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	e := Entry{
		SymbolName:       m.SymbolName,
		FootprintName:    m.FootprintName,
		FootprintLibrary: m.FootprintLibrary,
		Value:            m.Value,
		SymbolFile:       m.SymbolFile,
		FootprintFile:    m.FootprintFile,
	}
	if m.PinsJSON != "" {
		var pins []parts.Pin
		if err := json.Unmarshal([]byte(m.PinsJSON), &pins); err != nil {
			return Entry{}, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
		}
		e.Pins = pins
	}
	return e, true, nil
}

// Put implements Store.
func (s *SQLStore) Put(ctx context.Context, id string, e Entry) error {
	key, err := NormalizeKey(id)
	if err != nil {
		return err
	}

	var pinsJSON string
	if len(e.Pins) > 0 {
		data, err := json.Marshal(e.Pins)
		if err != nil {
			return fmt.Errorf("cache: encode pins %s: %w", key, err)
		}
		pinsJSON = string(data)
	}

	m := PartCacheModel{
		ExternalID:       key,
		SymbolName:       e.SymbolName,
		FootprintName:    e.FootprintName,
		FootprintLibrary: e.FootprintLibrary,
		Value:            e.Value,
		PinsJSON:         pinsJSON,
		SymbolFile:       e.SymbolFile,
		FootprintFile:    e.FootprintFile,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
