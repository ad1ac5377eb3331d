package store

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/seantiz/asyncdemo/internal/model"
)

// openORM wraps an open connection pool with gorm and migrates the
// api_responses table.
func openORM(db *sql.DB) (*gorm.DB, error) {
	orm, err := gorm.Open(&sqlite.Dialector{DriverName: "sqlite", Conn: db}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open orm: %w", err)
	}

	if err := orm.AutoMigrate(&model.ApiResponse{}); err != nil {
		return nil, fmt.Errorf("migrate api_responses: %w", err)
	}
	return orm, nil
}

// SaveResponse inserts r and sets its store-assigned ID.
func (s *SQLiteStore) SaveResponse(ctx context.Context, r *model.ApiResponse) error {
	if err := s.orm.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// ListResponses returns every stored response in insertion order.
func (s *SQLiteStore) ListResponses(ctx context.Context) ([]model.ApiResponse, error) {
	rows := []model.ApiResponse{}
	if err := s.orm.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return rows, nil
}

// CountResponses returns the number of stored responses.
func (s *SQLiteStore) CountResponses(ctx context.Context) (int64, error) {
	var n int64
	if err := s.orm.WithContext(ctx).Model(&model.ApiResponse{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}
