package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Base is embedded by SQL-backed stores keyed on a single column.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// TakeBy loads the single row whose column equals value into dest. It reports
// false, without error, when no row matches.
func (b Base) TakeBy(ctx context.Context, dest any, column string, value any) (bool, error) {
	err := b.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Upsert inserts row, or overwrites the listed columns when key already exists.
func (b Base) Upsert(ctx context.Context, row any, key string, columns ...string) error {
	return b.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
}

// DeleteBy removes the rows of model whose column equals value. Deleting
// nothing is not an error.
func (b Base) DeleteBy(ctx context.Context, model any, column string, value any) error {
	return b.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Delete(model).Error
}
