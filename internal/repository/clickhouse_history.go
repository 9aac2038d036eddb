package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
)

// ClickHouseHistory implements Storage over the signal_headers table.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseHistory creates ClickHouse-backed header storage.
func NewClickHouseHistory(db *sql.DB, table string) domrepo.Storage {
	if table == "" {
		table = "fractalpulse.signal_headers"
	}
	return &ClickHouseHistory{db: db, table: table}
}

func (s *ClickHouseHistory) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ts DateTime,
		symbol LowCardinality(String),
		horizon LowCardinality(String),
		signal LowCardinality(String),
		confidence_score Float64,
		confidence_level LowCardinality(String),
		phase LowCardinality(String),
		phase_confidence Float64,
		risk_level LowCardinality(String),
		consensus_score Float64,
		dispersion Float64,
		reliability Float64,
		entropy Float64,
		quality_score Float64,
		avg_max_dd Float64,
		vol_regime LowCardinality(String)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, horizon, ts)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

const headerColumns = "ts, symbol, horizon, signal, confidence_score, confidence_level, phase, phase_confidence, risk_level, consensus_score, dispersion, reliability, entropy, quality_score, avg_max_dd, vol_regime"

func headerArgs(h *models.SignalHeader) []interface{} {
	return []interface{}{
		h.Timestamp,
		h.Symbol,
		h.Horizon,
		string(h.Signal),
		h.ConfidenceScore,
		string(h.ConfidenceLevel),
		string(h.Phase),
		h.PhaseConfidence,
		string(h.RiskLevel),
		h.ConsensusScore,
		h.Dispersion,
		h.Reliability,
		h.Entropy,
		h.QualityScore,
		h.AvgMaxDD,
		string(h.VolRegime),
	}
}

func (s *ClickHouseHistory) Store(ctx context.Context, h *models.SignalHeader) error {
	if h == nil || h.Symbol == "" {
		return fmt.Errorf("invalid header")
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, headerColumns)
	_, err := s.db.ExecContext(ctx, q, headerArgs(h)...)
	return err
}

func (s *ClickHouseHistory) StoreBatch(ctx context.Context, headers []*models.SignalHeader) error {
	if len(headers) == 0 {
		return nil
	}
	// Chunked multi-row VALUES to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(headers); start += chunkSize {
		end := start + chunkSize
		if end > len(headers) {
			end = len(headers)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*16)
		for _, h := range headers[start:end] {
			if h == nil || h.Symbol == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, headerArgs(h)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, headerColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseHistory) Query(ctx context.Context, symbol string, horizon domrepo.Horizon, from, to time.Time, limit int) ([]*models.SignalHeader, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE symbol = ? AND horizon = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", headerColumns, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(horizon), from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headers []*models.SignalHeader
	for rows.Next() {
		var h models.SignalHeader
		var signal, confLevel, phase, risk, regime string
		if err := rows.Scan(
			&h.Timestamp,
			&h.Symbol,
			&h.Horizon,
			&signal,
			&h.ConfidenceScore,
			&confLevel,
			&phase,
			&h.PhaseConfidence,
			&risk,
			&h.ConsensusScore,
			&h.Dispersion,
			&h.Reliability,
			&h.Entropy,
			&h.QualityScore,
			&h.AvgMaxDD,
			&regime,
		); err != nil {
			return nil, err
		}
		h.Signal = models.Signal(signal)
		h.ConfidenceLevel = models.ConfidenceLevel(confLevel)
		h.Phase = models.Phase(phase)
		h.RiskLevel = models.RiskLevel(risk)
		h.VolRegime = models.VolRegime(regime)
		headers = append(headers, &h)
	}
	return headers, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistory) Close() error {
	return nil // connection owned by pkg/clickhouse
}
