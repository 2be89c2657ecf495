package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"brandintel/domain/market"
	"brandintel/internal/errors"
	"brandintel/ports"
)

// StudyRepositoryImpl implements StudyRepository for PostgreSQL.
//
// Source statuses and raw payloads live in JSONB columns updated via
// jsonb_set keyed by source, so concurrent completions touch disjoint keys
// and can never clobber each other's entries.
type StudyRepositoryImpl struct {
	db *sqlx.DB
}

// NewStudyRepository creates a new PostgreSQL study repository
func NewStudyRepository(db *sqlx.DB) ports.StudyRepository {
	return &StudyRepositoryImpl{db: db}
}

func (r *StudyRepositoryImpl) EnsureStudy(ctx context.Context, strategyID string, params market.CollectionParams) (*market.MarketStudy, error) {
	competitorsJSON, _ := json.Marshal(params.Competitors)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO market_studies (
			strategy_id, brand_name, sector, competitors, status,
			source_statuses, raw_data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, '{}'::jsonb, '{}'::jsonb, NOW(), NOW())
		ON CONFLICT (strategy_id) DO UPDATE SET
			brand_name = EXCLUDED.brand_name,
			sector = EXCLUDED.sector,
			competitors = EXCLUDED.competitors,
			updated_at = NOW()`,
		strategyID, params.BrandName, params.Sector, competitorsJSON, market.StudyCollecting)
	if err != nil {
		return nil, errors.Wrap(err, "failed to ensure market study")
	}

	return r.GetStudy(ctx, strategyID)
}

func (r *StudyRepositoryImpl) GetStudy(ctx context.Context, strategyID string) (*market.MarketStudy, error) {
	var row struct {
		StrategyID      string         `db:"strategy_id"`
		BrandName       string         `db:"brand_name"`
		Sector          string         `db:"sector"`
		Competitors     []byte         `db:"competitors"`
		Status          string         `db:"status"`
		SourceStatuses  []byte         `db:"source_statuses"`
		RawData         []byte         `db:"raw_data"`
		ManualNotes     sql.NullString `db:"manual_notes"`
		InternalContext sql.NullString `db:"internal_context"`
		Synthesis       []byte         `db:"synthesis"`
		SynthesizedAt   *time.Time     `db:"synthesized_at"`
		CreatedAt       time.Time      `db:"created_at"`
		UpdatedAt       time.Time      `db:"updated_at"`
	}

	err := r.db.GetContext(ctx, &row, `
		SELECT strategy_id, brand_name, sector, competitors, status,
		       source_statuses, raw_data, manual_notes, internal_context,
		       synthesis, synthesized_at, created_at, updated_at
		FROM market_studies
		WHERE strategy_id = $1`, strategyID)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("market study")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load market study")
	}

	study := &market.MarketStudy{
		StrategyID:      row.StrategyID,
		BrandName:       row.BrandName,
		Sector:          row.Sector,
		Status:          market.StudyStatus(row.Status),
		SourceStatuses:  map[market.SourceID]market.SourceStatus{},
		RawData:         map[market.SourceID]*market.SourcePayload{},
		ManualNotes:     row.ManualNotes.String,
		InternalContext: row.InternalContext.String,
		SynthesizedAt:   row.SynthesizedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}

	if len(row.Competitors) > 0 {
		json.Unmarshal(row.Competitors, &study.Competitors)
	}
	if len(row.SourceStatuses) > 0 {
		json.Unmarshal(row.SourceStatuses, &study.SourceStatuses)
	}
	if len(row.RawData) > 0 {
		json.Unmarshal(row.RawData, &study.RawData)
	}
	if len(row.Synthesis) > 0 {
		var synthesis market.Synthesis
		if err := json.Unmarshal(row.Synthesis, &synthesis); err == nil {
			study.Synthesis = &synthesis
		}
	}

	return study, nil
}

func (r *StudyRepositoryImpl) SetStudyStatus(ctx context.Context, strategyID string, status market.StudyStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE market_studies
		SET status = $2, updated_at = NOW()
		WHERE strategy_id = $1`, strategyID, status)
	if err != nil {
		return errors.Wrap(err, "failed to update study status")
	}
	return requireRow(res)
}

func (r *StudyRepositoryImpl) SetSourceStatus(ctx context.Context, strategyID string, source market.SourceID, status market.SourceStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE market_studies
		SET source_statuses = jsonb_set(source_statuses, ARRAY[$2::text], to_jsonb($3::text), true),
		    updated_at = NOW()
		WHERE strategy_id = $1`, strategyID, source, status)
	if err != nil {
		return errors.Wrap(err, "failed to update source status")
	}
	return requireRow(res)
}

func (r *StudyRepositoryImpl) SaveSourceData(ctx context.Context, strategyID string, payload *market.SourcePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal source payload")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE market_studies
		SET raw_data = jsonb_set(raw_data, ARRAY[$2::text], $3::jsonb, true),
		    updated_at = NOW()
		WHERE strategy_id = $1`, strategyID, payload.Source, raw)
	if err != nil {
		return errors.Wrap(err, "failed to save source payload")
	}
	return requireRow(res)
}

func (r *StudyRepositoryImpl) SetManualContext(ctx context.Context, strategyID, notes, internalContext string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE market_studies
		SET manual_notes = $2, internal_context = $3, updated_at = NOW()
		WHERE strategy_id = $1`, strategyID, notes, internalContext)
	if err != nil {
		return errors.Wrap(err, "failed to save manual context")
	}
	return requireRow(res)
}

func (r *StudyRepositoryImpl) SaveSynthesis(ctx context.Context, strategyID string, synthesis *market.Synthesis, at time.Time) error {
	raw, err := json.Marshal(synthesis)
	if err != nil {
		return errors.Wrap(err, "failed to marshal synthesis")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE market_studies
		SET synthesis = $2::jsonb, synthesized_at = $3, updated_at = NOW()
		WHERE strategy_id = $1`, strategyID, raw, at)
	if err != nil {
		return errors.Wrap(err, "failed to save synthesis")
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errors.NotFound("market study")
	}
	return nil
}
