package payrollrun

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=run_repo.go -destination=mock/run_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, record *PayrollRunRecord) error
	FindAll(ctx context.Context, limit, offset int) ([]PayrollRunRecord, error)
	FindByID(ctx context.Context, id string) (*PayrollRunRecord, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Insert(ctx context.Context, record *PayrollRunRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]PayrollRunRecord, error) {
	var records []PayrollRunRecord
	q := r.db.WithContext(ctx).Order("run_date DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&records).Error
	return records, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRunRecord, error) {
	var record PayrollRunRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
