package gorm

import (
	"time"

	"river-transit/ticketdesk/internal/constants"

	"gorm.io/gorm"
)

// Operator is crew operationally linked to at most one vessel.
type Operator struct {
	ID               string                   `gorm:"column:id;primaryKey;type:uuid"`
	FullName         string                   `gorm:"column:full_name;type:varchar(150);not null"`
	Document         string                   `gorm:"column:document;type:varchar(20);uniqueIndex"`
	AssignedVesselID *string                  `gorm:"column:assigned_vessel_id;type:uuid;index"`
	Status           constants.OperatorStatus `gorm:"column:status;type:varchar(10);not null;default:ACTIVO"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`

	AssignedVessel *Vessel `gorm:"foreignKey:AssignedVesselID"`
}

func (Operator) TableName() string {
	return "operators"
}

func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	o.ID = newID(o.ID)
	return nil
}
