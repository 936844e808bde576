package dbschema

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"medisage-api/internal/domain/history"
	"medisage-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(MedicalQuery{}, SymptomCheck{}, MedicineScan{}, VoiceInteraction{})
}

// HistoryRow is the column set shared by the four history tables.
type HistoryRow struct {
	ID             uint           `gorm:"primaryKey"`
	UserID         *uint          `gorm:"index"`
	RequestSummary string         `gorm:"not null"`
	Result         datatypes.JSON `gorm:"column:result"`
	ModelID        string         `gorm:"type:varchar(64);not null;default:''"`
	Provider       string         `gorm:"type:varchar(32);not null;default:''"`
	Saved          bool           `gorm:"not null;default:false"`
	Timestamp      time.Time      `gorm:"column:timestamp;not null;index"`
}

type MedicalQuery struct{ HistoryRow }

func (MedicalQuery) TableName() string { return "medical_queries" }

type SymptomCheck struct{ HistoryRow }

func (SymptomCheck) TableName() string { return "symptom_checks" }

type MedicineScan struct{ HistoryRow }

func (MedicineScan) TableName() string { return "medicine_scans" }

type VoiceInteraction struct{ HistoryRow }

func (VoiceInteraction) TableName() string { return "voice_interactions" }

var historyTables = map[history.Kind]string{
	history.KindMedicalQuery:     MedicalQuery{}.TableName(),
	history.KindSymptomCheck:     SymptomCheck{}.TableName(),
	history.KindMedicineScan:     MedicineScan{}.TableName(),
	history.KindVoiceInteraction: VoiceInteraction{}.TableName(),
}

// HistoryTable returns the table holding records of kind.
func HistoryTable(kind history.Kind) (string, error) {
	table, ok := historyTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown history kind %q", kind)
	}
	return table, nil
}

// NewSchemaHistoryRow converts a domain record into a row.
func NewSchemaHistoryRow(r *history.Record) *HistoryRow {
	return &HistoryRow{
		ID:             r.ID,
		UserID:         r.UserID,
		RequestSummary: r.RequestSummary,
		Result:         datatypes.JSON(r.Result),
		ModelID:        r.ModelID,
		Provider:       r.Provider,
		Saved:          r.Saved,
		Timestamp:      r.Timestamp,
	}
}

// EtoD converts a row of the given kind back to the domain representation.
func (h *HistoryRow) EtoD(kind history.Kind) *history.Record {
	if h == nil {
		return nil
	}
	return &history.Record{
		ID:             h.ID,
		Kind:           kind,
		UserID:         h.UserID,
		RequestSummary: h.RequestSummary,
		Result:         []byte(h.Result),
		ModelID:        h.ModelID,
		Provider:       h.Provider,
		Saved:          h.Saved,
		Timestamp:      h.Timestamp,
	}
}
