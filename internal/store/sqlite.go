package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/errors"
	"cryptoradar/internal/models"
)

// SQLiteStore implements Store using SQLite. Analyses are stored as JSON
// blobs keyed by asset and timestamp; candles get a relational table so they
// can be range-queried.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for historical OHLCV data
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		has_real_volume INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(asset_id, timeframe, timestamp)
	);

	-- Analyses table, one JSON document per pipeline run
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		overall_score REAL NOT NULL,
		predicted_change REAL NOT NULL,
		recommendation TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_candles_asset_timeframe ON candles(asset_id, timeframe);
	CREATE INDEX IF NOT EXISTS idx_candles_timestamp ON candles(timestamp);
	CREATE INDEX IF NOT EXISTS idx_analyses_asset ON analyses(asset_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveAnalysis implements Store.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *analysis.Analysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (asset_id, symbol, overall_score, predicted_change, recommendation, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.AssetID, a.Symbol, a.OverallScore, a.PredictedChange, string(a.Recommendation), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// LatestAnalysis implements Store.
func (s *SQLiteStore) LatestAnalysis(ctx context.Context, assetID string) (*analysis.Analysis, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM analyses
		WHERE asset_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, assetID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "no analysis for %s", assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var a analysis.Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &a, nil
}

// ListAnalyses implements Store.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]*analysis.Analysis, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM analyses a
		WHERE id = (
			SELECT MAX(id) FROM analyses WHERE asset_id = a.asset_id
		)
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var results []*analysis.Analysis
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		var a analysis.Analysis
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		results = append(results, &a)
	}

	return results, rows.Err()
}

// SaveCandles implements Store.
func (s *SQLiteStore) SaveCandles(ctx context.Context, assetID string, timeframe models.Timeframe, candles []models.Candle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles
		(asset_id, timeframe, timestamp, open, high, low, close, volume, has_real_volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare candle insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		realVolume := 0
		if c.HasRealVolume {
			realVolume = 1
		}
		if _, err := stmt.ExecContext(ctx, assetID, string(timeframe), c.Timestamp,
			c.Open, c.High, c.Low, c.Close, c.Volume, realVolume); err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	return tx.Commit()
}

// GetCandles implements Store.
func (s *SQLiteStore) GetCandles(ctx context.Context, assetID string, timeframe models.Timeframe, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume, has_real_volume
		FROM (
			SELECT * FROM candles
			WHERE asset_id = ? AND timeframe = ?
			ORDER BY timestamp DESC
			LIMIT ?
		)
		ORDER BY timestamp ASC`, assetID, string(timeframe), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		var realVolume int
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &realVolume); err != nil {
			return nil, fmt.Errorf("failed to scan candle row: %w", err)
		}
		c.HasRealVolume = realVolume != 0
		candles = append(candles, c)
	}

	return candles, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
