package payrollrun

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses as exposed by the orchestrator.
const (
	StatusComplete = "Complete"
	StatusPartial  = "Partial"
	StatusFailed   = "Failed"
)

// History statuses. Completed runs map 1:1; partial runs are recorded as
// still processing so a follow-up run can reconcile them.
const (
	HistoryStatusComplete   = "Complete"
	HistoryStatusProcessing = "Processing"
	HistoryStatusFailed     = "Failed"
)

// HistoryStatus maps a run status onto the value stored in history.
func HistoryStatus(runStatus string) string {
	switch runStatus {
	case StatusFailed:
		return HistoryStatusFailed
	case StatusPartial:
		return HistoryStatusProcessing
	default:
		return HistoryStatusComplete
	}
}

// PayrollRunRecord is one row of the append-only run history. Rows are
// never updated or deleted; corrections happen through new runs.
type PayrollRunRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunDate            time.Time `gorm:"not null;index"`
	PayPeriod          string    `gorm:"type:varchar(64);not null"`
	PayDate            string    `gorm:"type:varchar(10);not null"`
	PayFrequency       string    `gorm:"type:varchar(20);not null"`
	TotalAmount        float64   `gorm:"type:numeric(14,2);not null"`
	TotalEmployees     int       `gorm:"not null"`
	ProcessedEmployees int       `gorm:"not null"`
	SuccessfulPayments int       `gorm:"not null"`
	FailedPayments     int       `gorm:"not null"`
	Status             string    `gorm:"type:varchar(20);not null;index"`
	TaxRateSource      string    `gorm:"type:varchar(10);not null;default:'Static'"`
	ProcessingTime     float64   `gorm:"type:numeric(10,3);not null"`
	CreatedAt          time.Time
}

func (PayrollRunRecord) TableName() string {
	return "payroll_runs"
}
