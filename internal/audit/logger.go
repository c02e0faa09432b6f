package audit

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ratehub/store-rating-api/internal/models"
)

// Recorder persists a single audit event.
type Recorder interface {
	Record(ev Event) error
}

// GormRecorder writes audit rows next to the domain data.
type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

func (r *GormRecorder) Record(ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return r.db.Create(&row).Error
}

// LogRecorder backs the volatile demo mode: events land in the process
// log only.
type LogRecorder struct{}

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (LogRecorder) Record(ev Event) error {
	e := log.Info().Str("action", ev.Action).Str("entity", ev.Entity)
	if ev.UserID != nil {
		e = e.Uint("user_id", *ev.UserID)
	}
	if ev.EntityID != nil {
		e = e.Uint("entity_id", *ev.EntityID)
	}
	e.Msg("audit")
	return nil
}
