package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"github.com/smallbiznis/pizzaria/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, entry *domain.StockAdjustment) error {
	if entry == nil {
		return nil
	}
	if err := conn.WithContext(ctx).Create(entry).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter) ([]*domain.StockAdjustment, error) {
	var rows []*domain.StockAdjustment
	stmt := conn.WithContext(ctx).Model(&domain.StockAdjustment{})

	if orderID := strings.TrimSpace(filter.OrderID); orderID != "" {
		stmt = stmt.Where("order_id = ?", orderID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
