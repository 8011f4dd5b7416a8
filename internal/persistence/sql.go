package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/sonumarket-core/internal/repo"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"gorm.io/gorm"
)

const snapshotKeyColumn = "snapshot_key"

type snapshotRow struct {
	SnapshotKey string    `gorm:"column:snapshot_key;primaryKey"`
	Payload     string    `gorm:"column:payload"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (snapshotRow) TableName() string { return "snapshots" }

// SQLStore keeps snapshots in the snapshots table created by the goose migrations.
type SQLStore struct {
	repo.Base
	now func() time.Time
}

func NewSQLStore(conn *gorm.DB) (*SQLStore, error) {
	if conn == nil {
		return nil, errors.New("gorm connection required")
	}
	return &SQLStore{Base: repo.NewBase(conn), now: time.Now}, nil
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	var row snapshotRow
	found, err := s.TakeBy(ctx, &row, snapshotKeyColumn, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snapshot from database")
	}
	if !found {
		return nil, ErrNotFound
	}
	return []byte(row.Payload), nil
}

func (s *SQLStore) Save(ctx context.Context, key string, payload []byte) error {
	row := snapshotRow{
		SnapshotKey: key,
		Payload:     string(payload),
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.Upsert(ctx, &row, snapshotKeyColumn, "payload", "updated_at"); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save snapshot to database")
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if err := s.DeleteBy(ctx, &snapshotRow{}, snapshotKeyColumn, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete snapshot from database")
	}
	return nil
}
