// Package recorder persists every decision the bot takes so matches can be replayed
// and inspected offline. SQLite is the default backend, Postgres is available for
// collecting many matches in one place.
package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Match is one game session.
type Match struct {
	ID        uint `gorm:"primaryKey"`
	StartedAt time.Time
	Creatures int
	Decisions []Decision `gorm:"constraint:OnDelete:CASCADE"`
}

// Decision is one command of one drone in one turn, with the agent memory behind it.
type Decision struct {
	ID       uint `gorm:"primaryKey"`
	MatchID  uint `gorm:"index"`
	Turn     int  `gorm:"index"`
	DroneID  int
	Command  string
	Mode     string
	X, Y     int
	Light    bool
	Debounce int
	Escaping bool
	Saving   bool
	MyScore  int
	FoeScore int
	Blips    datatypes.JSON
}

type blipJSON struct {
	Creature int    `json:"creature"`
	Quadrant string `json:"quadrant"`
}

// Recorder writes decisions for a single match.
type Recorder struct {
	db    *gorm.DB
	match Match
	log   zerolog.Logger
}

// Open connects to the backend named by driver ("sqlite" or "postgres").
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		if dsn == "" {
			dsn = "file::memory:"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unknown recorder driver %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s recorder db: %w", driver, err)
	}

	if driver != "postgres" {
		// every connection to file::memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// New migrates the schema and opens a new match row.
func New(db *gorm.DB, creatures int, log zerolog.Logger) (*Recorder, error) {
	if err := db.AutoMigrate(&Match{}, &Decision{}); err != nil {
		return nil, fmt.Errorf("failed to migrate recorder schema: %w", err)
	}

	m := Match{StartedAt: time.Now().UTC(), Creatures: creatures}
	if err := db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	log.Info().Uint("match", m.ID).Msg("Recording decisions")
	return &Recorder{db: db, match: m, log: log}, nil
}

// Start opens the backend and begins a match on it. The connection is closed again
// when the match cannot be started.
func Start(driver, dsn string, creatures int, log zerolog.Logger) (*Recorder, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	rec, err := New(db, creatures, log)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("Failed to close recorder db")
			}
		}
		return nil, err
	}
	return rec, nil
}

// MatchID is the id of the match being recorded.
func (r *Recorder) MatchID() uint {
	return r.match.ID
}

// RecordTurn stores the commands of one turn together with the agents' memory.
func (r *Recorder) RecordTurn(s *agentlogic.Snapshot, cmds []agentlogic.Command, reg *agentlogic.Registry) error {
	rows := make([]Decision, 0, len(cmds))
	for _, c := range cmds {
		a, err := reg.Agent(c.DroneID)
		if err != nil {
			return err
		}

		blips := make([]blipJSON, 0, len(a.Blips))
		for _, b := range a.Blips {
			blips = append(blips, blipJSON{Creature: b.CreatureID, Quadrant: b.Quadrant.String()})
		}
		raw, err := json.Marshal(blips)
		if err != nil {
			return fmt.Errorf("encoding blips: %w", err)
		}

		rows = append(rows, Decision{
			MatchID:  r.match.ID,
			Turn:     s.Turn,
			DroneID:  c.DroneID,
			Command:  c.String(),
			Mode:     c.Mode.String(),
			X:        c.X,
			Y:        c.Y,
			Light:    c.Light,
			Debounce: a.Debounce,
			Escaping: a.Escaping,
			Saving:   a.SaveCommitted,
			MyScore:  s.MyScore,
			FoeScore: s.FoeScore,
			Blips:    datatypes.JSON(raw),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to record turn %d: %w", s.Turn, err)
	}
	r.log.Debug().Int("turn", s.Turn).Int("rows", len(rows)).Msg("Recorded turn")
	return nil
}

// Decisions returns the recorded decisions of a drone, oldest turn first.
func (r *Recorder) Decisions(droneID int) ([]Decision, error) {
	var out []Decision
	err := r.db.
		Where("match_id = ? AND drone_id = ?", r.match.ID, droneID).
		Order("turn ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection.
func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}
