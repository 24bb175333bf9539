package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRecordingNotFound is returned by Get for an unknown ID.
var ErrRecordingNotFound = errors.New("recording not found")

// ErrNegativeLimit is returned by List for a limit below zero.
var ErrNegativeLimit = errors.New("list limit must not be negative")

// Recording is the catalog entry for one stored .c2 stream.
type Recording struct {
	ID        string
	Name      string
	Mode      codec2.Mode
	SideInfo  bool
	Frames    int64
	SizeBytes int64
	ObjectKey string
	CreatedAt time.Time
}

// Duration is the audio length of the recording.
func (r Recording) Duration() time.Duration {
	return time.Duration(r.Frames) * r.Mode.Geometry().FrameDuration()
}

type RecordingRepository interface {
	Save(ctx context.Context, recording Recording) error
	Get(ctx context.Context, id string) (Recording, error)
	List(ctx context.Context, limit int) ([]Recording, error)
}

type PostgresRecordingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRecordingRepository(db *pgxpool.Pool) *PostgresRecordingRepository {
	return &PostgresRecordingRepository{db: db}
}

var _ RecordingRepository = (*PostgresRecordingRepository)(nil)

func RecordingToRowParams(r Recording) []any {
	return []any{
		r.ID,
		r.Name,
		int16(r.Mode.ID()),
		r.SideInfo,
		r.Frames,
		r.SizeBytes,
		r.ObjectKey,
	}
}

func (r *PostgresRecordingRepository) Save(ctx context.Context, recording Recording) error {
	const query = `
	INSERT INTO recording (id, name, mode, side_info, frames, size_bytes, object_key)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		mode = EXCLUDED.mode,
		side_info = EXCLUDED.side_info,
		frames = EXCLUDED.frames,
		size_bytes = EXCLUDED.size_bytes,
		object_key = EXCLUDED.object_key
	`
	if _, err := r.db.Exec(ctx, query, RecordingToRowParams(recording)...); err != nil {
		return fmt.Errorf("failed to save recording %s: %w", recording.ID, err)
	}
	return nil
}

const selectRecording = `
	SELECT id, name, mode, side_info, frames, size_bytes, object_key, created_at
	FROM recording
`

func scanRecording(row pgx.Row) (Recording, error) {
	var (
		rec  Recording
		mode int16
	)
	if err := row.Scan(&rec.ID, &rec.Name, &mode, &rec.SideInfo, &rec.Frames, &rec.SizeBytes, &rec.ObjectKey, &rec.CreatedAt); err != nil {
		return Recording{}, err
	}
	m, ok := codec2.ModeFromID(byte(mode))
	if !ok {
		return Recording{}, fmt.Errorf("recording %s has unknown mode id %d", rec.ID, mode)
	}
	rec.Mode = m
	return rec, nil
}

func (r *PostgresRecordingRepository) Get(ctx context.Context, id string) (Recording, error) {
	rec, err := scanRecording(r.db.QueryRow(ctx, selectRecording+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Recording{}, fmt.Errorf("%s: %w", id, ErrRecordingNotFound)
	}
	if err != nil {
		return Recording{}, fmt.Errorf("failed to get recording %s: %w", id, err)
	}
	return rec, nil
}

func (r *PostgresRecordingRepository) List(ctx context.Context, limit int) ([]Recording, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	rows, err := r.db.Query(ctx, selectRecording+" ORDER BY created_at DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	return recordings, nil
}

// MemoryRecordingRepository keeps recordings in memory.
type MemoryRecordingRepository struct {
	mu         sync.Mutex
	recordings map[string]Recording
	now        func() time.Time
}

func NewMemoryRecordingRepository() *MemoryRecordingRepository {
	return &MemoryRecordingRepository{
		recordings: make(map[string]Recording),
		now:        time.Now,
	}
}

var _ RecordingRepository = (*MemoryRecordingRepository)(nil)

func (r *MemoryRecordingRepository) Save(ctx context.Context, recording Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.recordings[recording.ID]; ok {
		recording.CreatedAt = existing.CreatedAt
	} else if recording.CreatedAt.IsZero() {
		recording.CreatedAt = r.now()
	}
	r.recordings[recording.ID] = recording
	return nil
}

func (r *MemoryRecordingRepository) Get(ctx context.Context, id string) (Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recordings[id]
	if !ok {
		return Recording{}, fmt.Errorf("%s: %w", id, ErrRecordingNotFound)
	}
	return rec, nil
}

func (r *MemoryRecordingRepository) List(ctx context.Context, limit int) ([]Recording, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recordings := make([]Recording, 0, len(r.recordings))
	for _, rec := range r.recordings {
		recordings = append(recordings, rec)
	}
	slices.SortFunc(recordings, func(a, b Recording) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	if limit >= 0 && len(recordings) > limit {
		recordings = recordings[:limit]
	}
	return recordings, nil
}
