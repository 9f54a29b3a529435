// Package database opens the GORM connections used by the settings
// backends.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mqmap/overlay/internal/config"
	"github.com/mqmap/overlay/internal/model"
)

// ErrNoDumpPath is returned by DumpToDisk without a target.
var ErrNoDumpPath = errors.New("sqlite dump path not set")

const memoryDSN = "file::memory:?cache=shared"

// Manager handles database connections and operations.
type Manager struct {
	DB       *gorm.DB
	SqlDB    *sql.DB
	IsLocal  bool
	Logger   zerolog.Logger
	dumpPath string
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// ConnectPostgres connects to Postgres. When the server cannot be reached
// the manager falls back to an in-memory SQLite database and reports it
// through IsLocal.
func (m *Manager) ConnectPostgres(cfg config.DBConfig) error {
	db, err := OpenPostgres(cfg)
	if err == nil {
		m.DB = db
		if err = m.ping(); err == nil {
			m.SqlDB.SetMaxOpenConns(10)
			m.Logger.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connected to database")
			return nil
		}
	}
	m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
	return m.ConnectSqlite("")
}

// ConnectSqlite opens path, or a shared in-memory database when path is
// empty.
func (m *Manager) ConnectSqlite(path string) error {
	db, err := OpenSqlite(path)
	if err != nil {
		return fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	m.DB = db
	m.IsLocal = true
	if err := m.ping(); err != nil {
		return err
	}
	if path == "" {
		m.Logger.Info().Msg("Using local SQLite DB in memory")
	} else {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	}
	return nil
}

func (m *Manager) ping() error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	m.SqlDB = sqlDB
	return nil
}

// Setup migrates the schema.
func (m *Manager) Setup() error {
	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// SetDumpPath sets the file DumpToDisk writes to.
func (m *Manager) SetDumpPath(path string) {
	m.dumpPath = path
}

// DumpToDisk snapshots the SQLite database to the dump path.
func (m *Manager) DumpToDisk() error {
	start := time.Now()
	if err := DumpSqlite(m.DB, m.dumpPath); err != nil {
		return err
	}
	m.Logger.Debug().Dur("duration", time.Since(start)).Str("path", m.dumpPath).Msg("Dumped SQLite DB to disk")
	return nil
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}

// OpenPostgres returns a connection to the Postgres database.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// OpenSqlite returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func OpenSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA temp_store = MEMORY;",
	}
	if path == "" {
		pragmas[2] = "PRAGMA journal_mode = MEMORY;"
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// DumpSqlite vacuums db into a fresh file at path.
func DumpSqlite(db *gorm.DB, path string) error {
	if path == "" {
		return ErrNoDumpPath
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}
	if err := db.Exec("VACUUM INTO ?;", path).Error; err != nil {
		return fmt.Errorf("error dumping DB to disk: %w", err)
	}
	return nil
}
