package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/faceattr/internal/config"
	"github.com/your-org/faceattr/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Analyses ---

// CreateAnalysis stores one analysis row together with its per-face results
// in a single transaction.
func (s *PostgresStore) CreateAnalysis(ctx context.Context, a *models.Analysis, faces []models.FaceAttributes) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.FaceCount = len(faces)
	a.CreatedAt = time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO analyses (id, image_key, annotated_key, face_count, width, height, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ImageKey, a.AnnotatedKey, a.FaceCount, a.Width, a.Height, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	for _, f := range faces {
		_, err = tx.Exec(ctx,
			`INSERT INTO face_results (id, analysis_id, face_index, box_left, box_top, box_right, box_bottom, gender, age, age_bucket, emotion, mood, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			uuid.New(), a.ID, f.Index,
			f.Box.Left, f.Box.Top, f.Box.Right, f.Box.Bottom,
			f.Gender, f.Age, f.AgeBucket, f.Emotion, f.Mood, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert face result %d: %w", f.Index, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit analysis: %w", err)
	}
	return nil
}

// GetAnalysis returns a single analysis, or nil if it does not exist.
func (s *PostgresStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	a := &models.Analysis{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, image_key, annotated_key, face_count, width, height, created_at
		 FROM analyses WHERE id = $1`, id,
	).Scan(&a.ID, &a.ImageKey, &a.AnnotatedKey, &a.FaceCount, &a.Width, &a.Height, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses returns a page of analyses newest-first plus the total count.
func (s *PostgresStore) ListAnalyses(ctx context.Context, limit, offset int) ([]models.Analysis, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, image_key, annotated_key, face_count, width, height, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		var a models.Analysis
		if err := rows.Scan(&a.ID, &a.ImageKey, &a.AnnotatedKey, &a.FaceCount, &a.Width, &a.Height, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, total, nil
}

// ListFaceResults returns all face rows of one analysis in face order.
func (s *PostgresStore) ListFaceResults(ctx context.Context, analysisID uuid.UUID) ([]models.FaceResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, analysis_id, face_index, box_left, box_top, box_right, box_bottom, gender, age, age_bucket, emotion, mood, created_at
		 FROM face_results WHERE analysis_id = $1 ORDER BY face_index`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("list face results: %w", err)
	}
	defer rows.Close()

	var faces []models.FaceResult
	for rows.Next() {
		var f models.FaceResult
		if err := rows.Scan(&f.ID, &f.AnalysisID, &f.FaceIndex,
			&f.Box.Left, &f.Box.Top, &f.Box.Right, &f.Box.Bottom,
			&f.Gender, &f.Age, &f.AgeBucket, &f.Emotion, &f.Mood, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan face result: %w", err)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

// DeleteAnalysis removes an analysis and its face rows.
func (s *PostgresStore) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found")
	}
	return nil
}
