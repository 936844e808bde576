package historyrepo

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medisage-api/internal/domain/history"
	"medisage-api/internal/infrastructure/database/dbschema"
	"medisage-api/internal/utils/platformerrors"
)

type HistoryGormRepository struct {
	db *gorm.DB
}

var _ history.Repository = (*HistoryGormRepository)(nil)

func NewHistoryGormRepository(db *gorm.DB) history.Repository {
	return &HistoryGormRepository{db: db}
}

func (repo *HistoryGormRepository) table(ctx context.Context, kind history.Kind) (*gorm.DB, error) {
	name, err := dbschema.HistoryTable(kind)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeValidation,
			err.Error(), err, "c25d8f30-0c4e-4a7b-d9c0-f8b3cae5ae22")
	}
	return repo.db.WithContext(ctx).Table(name), nil
}

func (repo *HistoryGormRepository) Create(ctx context.Context, record *history.Record) error {
	tx, err := repo.table(ctx, record.Kind)
	if err != nil {
		return err
	}
	row := dbschema.NewSchemaHistoryRow(record)
	if err := tx.Create(row).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create history record", err, "d36e9a41-1d5f-4b8c-eac1-a9c4dbf6bf23")
	}
	record.ID = row.ID
	return nil
}

func (repo *HistoryGormRepository) FindByID(ctx context.Context, kind history.Kind, id uint) (*history.Record, error) {
	tx, err := repo.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var row dbschema.HistoryRow
	err = tx.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"history record not found", err, "e47fab52-2e60-4c9d-fbd2-bad5ec07c024")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find history record", err, "f580bc63-3f71-4dae-ace3-cbe6fd18d125")
	}
	return row.EtoD(kind), nil
}

func (repo *HistoryGormRepository) UpdateSaved(ctx context.Context, kind history.Kind, id uint, saved bool) error {
	tx, err := repo.table(ctx, kind)
	if err != nil {
		return err
	}
	result := tx.Where("id = ?", id).Update("saved", saved)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update saved flag", result.Error, "0691cd74-4082-4ebf-bdf4-dcf70e29e226")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"history record not found", nil, "17a2de85-5193-4fc0-8e05-ed081f3af327")
	}
	return nil
}

// List pages through one kind, or merges all kinds newest first when filter.Kind is nil.
func (repo *HistoryGormRepository) List(ctx context.Context, filter history.Filter, page history.Pagination) ([]*history.Record, int64, error) {
	kinds := history.Kinds
	if filter.Kind != nil {
		kinds = []history.Kind{*filter.Kind}
	}

	// Each table contributes at most offset+limit rows; the merged window is cut afterwards.
	window := page.Offset + page.Limit
	var (
		merged []*history.Record
		total  int64
	)
	for _, kind := range kinds {
		tx, err := repo.table(ctx, kind)
		if err != nil {
			return nil, 0, err
		}
		tx = tx.Where("user_id = ?", filter.UserID)
		if filter.SavedOnly {
			tx = tx.Where("saved = ?", true)
		}

		var count int64
		if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
			return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to count history records", err, "28b3ef96-62a4-4ad1-9f16-fe192a4bf428")
		}
		total += count
		if count == 0 {
			continue
		}

		var rows []dbschema.HistoryRow
		err = tx.Session(&gorm.Session{}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
			Limit(window).
			Find(&rows).Error
		if err != nil {
			return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to list history records", err, "39c4f0a7-73b5-4be2-a027-0f2a3b5cf529")
		}
		for i := range rows {
			merged = append(merged, rows[i].EtoD(kind))
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if page.Offset >= len(merged) {
		return []*history.Record{}, total, nil
	}
	end := page.Offset + page.Limit
	if end > len(merged) {
		end = len(merged)
	}
	return merged[page.Offset:end], total, nil
}
