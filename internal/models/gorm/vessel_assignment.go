package gorm

import (
	"time"

	"river-transit/ticketdesk/internal/schedule"

	"gorm.io/gorm"
)

// VesselAssignment binds a vessel to a route with its departure times and
// operating weekdays. Weekdays are stored normalized ("LUNES,MIERCOLES") and
// times as "HH:MM" lists.
type VesselAssignment struct {
	ID             string    `gorm:"column:id;primaryKey;type:uuid"`
	RouteID        string    `gorm:"column:route_id;type:uuid;not null;uniqueIndex:idx_assignment_route_vessel"`
	VesselID       string    `gorm:"column:vessel_id;type:uuid;not null;uniqueIndex:idx_assignment_route_vessel;index"`
	DepartureTimes string    `gorm:"column:departure_times;type:text;not null"`
	OperatingDays  string    `gorm:"column:operating_days;type:text"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Route  Route  `gorm:"foreignKey:RouteID"`
	Vessel Vessel `gorm:"foreignKey:VesselID"`
}

func (VesselAssignment) TableName() string {
	return "vessel_assignments"
}

func (a *VesselAssignment) BeforeCreate(tx *gorm.DB) error {
	a.ID = newID(a.ID)
	return nil
}

// Plan parses the stored schedule columns.
func (a *VesselAssignment) Plan() (schedule.Plan, error) {
	return schedule.NewPlan(schedule.SplitList(a.OperatingDays), schedule.SplitList(a.DepartureTimes))
}

// SetPlan stores p in normalized form.
func (a *VesselAssignment) SetPlan(p schedule.Plan) {
	a.OperatingDays = p.DayList()
	a.DepartureTimes = p.TimeList()
}
