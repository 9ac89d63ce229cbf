package gorm

import (
	"time"

	"river-transit/ticketdesk/internal/constants"

	"gorm.io/gorm"
)

// Vessel is a boat with a fixed passenger capacity.
type Vessel struct {
	ID                string                 `gorm:"column:id;primaryKey;type:uuid"`
	Name              string                 `gorm:"column:name;type:varchar(100);not null"`
	Registration      string                 `gorm:"column:registration;type:varchar(50);uniqueIndex"`
	PassengerCapacity int                    `gorm:"column:passenger_capacity;not null;check:passenger_capacity > 0"`
	Type              string                 `gorm:"column:type;type:varchar(50)"`
	Status            constants.VesselStatus `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Vessel) TableName() string {
	return "vessels"
}

func (v *Vessel) BeforeCreate(tx *gorm.DB) error {
	v.ID = newID(v.ID)
	return nil
}

// Sellable reports whether the vessel is in service.
func (v *Vessel) Sellable() bool {
	return v.Status == constants.VesselActive
}
