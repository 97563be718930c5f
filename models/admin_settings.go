// models/admin_settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettingsKey is the sentinel value held by every settings document.
// A unique index on the field guarantees the collection can never hold
// more than one row, even under concurrent first access.
const SettingsKey = "global"

// Payout schedules
const (
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"
)

// AdminSettings is the process-wide singleton configuration document.
type AdminSettings struct {
	ID                           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key                          string             `json:"-" bson:"key"`
	MinCPM                       float64            `json:"minCPM" bson:"minCPM"`
	MinViewsForPayout            int64              `json:"minViewsForPayout" bson:"minViewsForPayout"`
	PlatformCommissionPercentage float64            `json:"platformCommissionPercentage" bson:"platformCommissionPercentage"`
	PayoutSchedule               string             `json:"payoutSchedule" bson:"payoutSchedule"`
	CreatedAt                    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt                    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type UpdateSettingsRequest struct {
	MinCPM                       *float64 `json:"minCPM,omitempty"`
	MinViewsForPayout            *int64   `json:"minViewsForPayout,omitempty"`
	PlatformCommissionPercentage *float64 `json:"platformCommissionPercentage,omitempty"`
	PayoutSchedule               *string  `json:"payoutSchedule,omitempty"`
}

// DefaultAdminSettings returns the document created on first access.
func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		Key:                          SettingsKey,
		MinCPM:                       0.50,
		MinViewsForPayout:            1000,
		PlatformCommissionPercentage: 15,
		PayoutSchedule:               ScheduleWeekly,
	}
}

// Validate checks the settings bounds.
func (s *AdminSettings) Validate() []string {
	var msgs []string

	if s.MinCPM < 0.01 {
		msgs = append(msgs, "minCPM: Minimum CPM must be greater than 0")
	}
	if s.MinViewsForPayout < 1 {
		msgs = append(msgs, "minViewsForPayout: Minimum views must be at least 1")
	}
	if s.PlatformCommissionPercentage < 0 || s.PlatformCommissionPercentage > 100 {
		msgs = append(msgs, "platformCommissionPercentage: Commission must be between 0 and 100")
	}
	if s.PayoutSchedule != ScheduleWeekly && s.PayoutSchedule != ScheduleMonthly {
		msgs = append(msgs, "payoutSchedule: Payout schedule must be weekly or monthly")
	}
	return msgs
}
