package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gd_valuation/pkg/core/tariff"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TariffSchema creates the reference table when missing
const TariffSchema = `
CREATE TABLE IF NOT EXISTS distributor_tariffs (
	distributor_id                  TEXT PRIMARY KEY,
	name                            TEXT NOT NULL,
	state                           TEXT NOT NULL,
	aneel_code                      TEXT NOT NULL DEFAULT '',
	energy_tariff                   DOUBLE PRECISION NOT NULL,
	distribution_tariff             DOUBLE PRECISION NOT NULL,
	generation_distribution_tariff  DOUBLE PRECISION NOT NULL,
	consumption_distribution_tariff DOUBLE PRECISION NOT NULL,
	updated_at                      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// TariffRepo serves tariff snapshots from PostgreSQL (primary) or a
// directory of JSON files (fallback/local). It implements tariff.Source.
type TariffRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewTariffRepo creates a repository. With a nil pool it reads and writes
// JSON snapshots under dir; with both empty it answers nothing, so it can
// sit in front of the static table in a tariff.ChainSource.
func NewTariffRepo(pool *pgxpool.Pool, dir string) *TariffRepo {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check tariff cache dir: %v\n", err)
		}
	}
	return &TariffRepo{pool: pool, fileDir: dir}
}

// Snapshot is one distributor's stored tariff row
type Snapshot struct {
	Distributor tariff.Distributor `json:"distributor"`
	Components  tariff.Components  `json:"components"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Tariffs returns the stored components for a distributor
func (r *TariffRepo) Tariffs(ctx context.Context, distributorID string) (tariff.Components, error) {
	// 1. Try DB
	if r.pool != nil {
		query := `
			SELECT energy_tariff, distribution_tariff,
			       generation_distribution_tariff, consumption_distribution_tariff
			FROM distributor_tariffs
			WHERE distributor_id = $1
		`
		var c tariff.Components
		err := r.pool.QueryRow(ctx, query, distributorID).Scan(
			&c.EnergyTariff, &c.DistributionTariff,
			&c.GenerationDistributionTariff, &c.ConsumptionDistributionTariff,
		)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return tariff.Components{}, fmt.Errorf("failed to query tariffs: %w", err)
		}
		return tariff.Components{}, fmt.Errorf("%w: %q", tariff.ErrUnknownDistributor, distributorID)
	}

	// 2. Try File System
	if r.fileDir != "" {
		snap, err := r.loadFromFile(r.snapshotPath(distributorID))
		if err == nil {
			return snap.Components, nil
		}
	}

	return tariff.Components{}, fmt.Errorf("%w: %q", tariff.ErrUnknownDistributor, distributorID)
}

// Distributors lists every distributor with a stored row
func (r *TariffRepo) Distributors(ctx context.Context) ([]tariff.Distributor, error) {
	if r.pool != nil {
		rows, err := r.pool.Query(ctx, `SELECT distributor_id, name, state, aneel_code FROM distributor_tariffs`)
		if err != nil {
			return nil, fmt.Errorf("failed to list distributors: %w", err)
		}
		defer rows.Close()

		var out []tariff.Distributor
		for rows.Next() {
			var d tariff.Distributor
			if err := rows.Scan(&d.ID, &d.Name, &d.State, &d.AneelCode); err != nil {
				return nil, fmt.Errorf("failed to scan distributor: %w", err)
			}
			out = append(out, d)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		tariff.SortByName(out)
		return out, nil
	}

	if r.fileDir != "" {
		return r.scanFiles()
	}
	return nil, nil
}

// Save upserts a snapshot into the DB and/or the file cache
func (r *TariffRepo) Save(ctx context.Context, d tariff.Distributor, c tariff.Components) error {
	now := time.Now()

	// 1. Save to DB
	if r.pool != nil {
		query := `
			INSERT INTO distributor_tariffs (
				distributor_id, name, state, aneel_code,
				energy_tariff, distribution_tariff,
				generation_distribution_tariff, consumption_distribution_tariff, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (distributor_id)
			DO UPDATE SET
				energy_tariff = EXCLUDED.energy_tariff,
				distribution_tariff = EXCLUDED.distribution_tariff,
				generation_distribution_tariff = EXCLUDED.generation_distribution_tariff,
				consumption_distribution_tariff = EXCLUDED.consumption_distribution_tariff,
				updated_at = EXCLUDED.updated_at
		`
		_, err := r.pool.Exec(ctx, query,
			d.ID, d.Name, d.State, d.AneelCode,
			c.EnergyTariff, c.DistributionTariff,
			c.GenerationDistributionTariff, c.ConsumptionDistributionTariff, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save tariffs to db: %w", err)
		}
	}

	// 2. Save to File
	if r.fileDir != "" {
		snap := Snapshot{Distributor: d, Components: c, UpdatedAt: now}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if err := os.WriteFile(r.snapshotPath(d.ID), data, 0644); err != nil {
			return fmt.Errorf("failed to save to file cache: %w", err)
		}
	}

	return nil
}

// SaveAll stores imported rows, resolving each ID against the registry
func (r *TariffRepo) SaveAll(ctx context.Context, rows map[string]tariff.Components) (int, error) {
	saved := 0
	for id, c := range rows {
		d, ok := tariff.DistributorByID(id)
		if !ok {
			fmt.Printf("[STORE] skipping unknown distributor %s\n", id)
			continue
		}
		if err := r.Save(ctx, d, c); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// Internal File Helpers

func (r *TariffRepo) snapshotPath(id string) string {
	safe := strings.Map(func(c rune) rune {
		if c == '/' || c == '\\' || c == '.' {
			return '_'
		}
		return c
	}, strings.ToUpper(id))
	return filepath.Join(r.fileDir, safe+".json")
}

func (r *TariffRepo) loadFromFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *TariffRepo) scanFiles() ([]tariff.Distributor, error) {
	entries, err := os.ReadDir(r.fileDir)
	if err != nil {
		return nil, nil
	}

	var out []tariff.Distributor
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		snap, err := r.loadFromFile(filepath.Join(r.fileDir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, snap.Distributor)
	}
	tariff.SortByName(out)
	return out, nil
}
