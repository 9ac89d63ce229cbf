package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Route is a named origin-destination pair with a base ticket price.
type Route struct {
	ID                string    `gorm:"column:id;primaryKey;type:uuid"`
	Name              string    `gorm:"column:name;type:varchar(150);not null"`
	OriginPortID      string    `gorm:"column:origin_port_id;type:uuid;not null"`
	DestinationPortID string    `gorm:"column:destination_port_id;type:uuid;not null"`
	Price             float64   `gorm:"column:price;type:numeric(10,2);not null"`
	IsActive          bool      `gorm:"column:is_active;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	OriginPort      Port               `gorm:"foreignKey:OriginPortID"`
	DestinationPort Port               `gorm:"foreignKey:DestinationPortID"`
	Assignments     []VesselAssignment `gorm:"foreignKey:RouteID"`
}

func (Route) TableName() string {
	return "routes"
}

func (r *Route) BeforeCreate(tx *gorm.DB) error {
	r.ID = newID(r.ID)
	return nil
}
