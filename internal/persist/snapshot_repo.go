package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

var (
	ErrNotFound = errors.New("persist: no snapshot stored")
	ErrChecksum = errors.New("persist: snapshot checksum mismatch")
)

// SnapshotInfo describes one stored snapshot without its document.
type SnapshotInfo struct {
	ID        int64
	WorldName string
	Entities  int
	CreatedAt time.Time
}

// SnapshotRepo stores world snapshots in the world_snapshots table. The
// document column keeps the exact bytes written so the blake2b checksum
// can be verified on load.
type SnapshotRepo struct {
	db   *DB
	keep int
}

// NewSnapshotRepo returns a repo that keeps the newest keep snapshots per
// world name; keep <= 0 keeps everything.
func NewSnapshotRepo(db *DB, keep int) *SnapshotRepo {
	return &SnapshotRepo{db: db, keep: keep}
}

func checksum(doc []byte) []byte {
	sum := blake2b.Sum256(doc)
	return sum[:]
}

// Save writes s under name and prunes older rows in the same transaction.
func (r *SnapshotRepo) Save(ctx context.Context, name string, s *snapshot.Snapshot) error {
	doc, err := snapshot.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO world_snapshots (world_name, version, entities, document, checksum)
		 VALUES ($1, $2, $3, $4, $5)`,
		name, s.Version, len(s.Entities), string(doc), checksum(doc),
	); err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}

	if r.keep > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM world_snapshots
			 WHERE world_name = $1 AND id NOT IN (
			     SELECT id FROM world_snapshots WHERE world_name = $1
			     ORDER BY id DESC LIMIT $2)`,
			name, r.keep,
		); err != nil {
			return fmt.Errorf("snapshot prune: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("snapshot commit: %w", err)
	}
	r.db.log.Debug("snapshot stored", zap.String("world", name), zap.Int("entities", len(s.Entities)))
	return nil
}

// Latest loads the newest snapshot stored under name. It returns
// ErrNotFound when there is none and ErrChecksum when the stored bytes no
// longer match their checksum.
func (r *SnapshotRepo) Latest(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	var doc string
	var sum []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT document, checksum FROM world_snapshots
		 WHERE world_name = $1 ORDER BY id DESC LIMIT 1`, name,
	).Scan(&doc, &sum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: world %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	return verify([]byte(doc), sum)
}

// List returns stored snapshots for name, newest first.
func (r *SnapshotRepo) List(ctx context.Context, name string) ([]SnapshotInfo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, world_name, entities, created_at FROM world_snapshots
		 WHERE world_name = $1 ORDER BY id DESC`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot list: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.WorldName, &info.Entities, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("snapshot scan: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func verify(doc, sum []byte) (*snapshot.Snapshot, error) {
	if !bytes.Equal(checksum(doc), sum) {
		return nil, ErrChecksum
	}
	return snapshot.Parse(doc)
}
