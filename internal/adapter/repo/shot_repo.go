package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shotserver/internal/domain"
	"shotserver/internal/domain/jsoncfg"
)

// ShotRepositoryPG implements domain.ShotRepository.
type ShotRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewShotRepository creates a new shot repository backed by PostgreSQL.
func NewShotRepository(pool *pgxpool.Pool) *ShotRepositoryPG {
	return &ShotRepositoryPG{pool: pool}
}

// CreateShot inserts a new shot row.
func (r *ShotRepositoryPG) CreateShot(ctx context.Context, shot *domain.Shot) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO shots (id, project_id, name)
VALUES ($1, $2, $3);
`, shot.ID, shot.ProjectID, shot.Name)
	return err
}

// GetShot fetches the shot row itself.
func (r *ShotRepositoryPG) GetShot(ctx context.Context, shotID string) (*domain.Shot, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, project_id, name, created_at, updated_at
FROM shots
WHERE id = $1;
`, shotID)
	var shot domain.Shot
	if err := row.Scan(&shot.ID, &shot.ProjectID, &shot.Name, &shot.CreatedAt, &shot.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &shot, nil
}

// Snapshot reads the shot's images, pair overrides and settings in one pass.
// It always goes to the database: the compiler requires a fresh view of the
// timeline, so nothing here is cached.
func (r *ShotRepositoryPG) Snapshot(ctx context.Context, shotID string) (*domain.ShotSnapshot, error) {
	snap := &domain.ShotSnapshot{
		ShotID:    shotID,
		Overrides: map[string]domain.PairOverride{},
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, pair_group_id, timeline_position, location_url, is_video
FROM shot_images
WHERE shot_id = $1
ORDER BY sort_order, created_at;
`, shotID)
	if err != nil {
		return nil, fmt.Errorf("query shot images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var img domain.PositionedImage
		var location *string
		if err := rows.Scan(&img.ID, &img.PairGroupID, &img.Position, &location, &img.IsVideo); err != nil {
			return nil, fmt.Errorf("scan shot image: %w", err)
		}
		if location != nil {
			img.LocationURL = *location
		}
		snap.Images = append(snap.Images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shot images: %w", err)
	}

	if err := r.loadOverrides(ctx, shotID, snap); err != nil {
		return nil, err
	}

	settings, err := r.loadSettings(ctx, shotID)
	if err != nil {
		return nil, err
	}
	snap.Settings = settings
	return snap, nil
}

// UpdateSettings upserts the settings document for the shot.
func (r *ShotRepositoryPG) UpdateSettings(ctx context.Context, shotID string, settings []byte) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO shot_settings (shot_id, settings)
VALUES ($1, $2)
ON CONFLICT (shot_id) DO UPDATE SET
    settings = EXCLUDED.settings,
    updated_at = NOW();
`, shotID, settings)
	return err
}

func (r *ShotRepositoryPG) loadOverrides(ctx context.Context, shotID string, snap *domain.ShotSnapshot) error {
	rows, err := r.pool.Query(ctx, `
SELECT start_image_id, prompt, negative_prompt, enhanced_prompt
FROM pair_overrides
WHERE shot_id = $1;
`, shotID)
	if err != nil {
		return fmt.Errorf("query pair overrides: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var imageID string
		var ov domain.PairOverride
		if err := rows.Scan(&imageID, &ov.Prompt, &ov.NegativePrompt, &ov.EnhancedPrompt); err != nil {
			return fmt.Errorf("scan pair override: %w", err)
		}
		snap.Overrides[imageID] = ov
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate pair overrides: %w", err)
	}
	return nil
}

func (r *ShotRepositoryPG) loadSettings(ctx context.Context, shotID string) (domain.ShotSettings, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `
SELECT settings
FROM shot_settings
WHERE shot_id = $1;
`, shotID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		// A shot saved before settings were ever touched compiles with
		// defaults.
		var s jsoncfg.SettingsJSON
		s.Normalize()
		return s.ToDomain(), nil
	}
	if err != nil {
		return domain.ShotSettings{}, fmt.Errorf("query shot settings: %w", err)
	}

	var s jsoncfg.SettingsJSON
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.ShotSettings{}, fmt.Errorf("decode shot settings: %w", err)
	}
	s.Normalize()
	return s.ToDomain(), nil
}
