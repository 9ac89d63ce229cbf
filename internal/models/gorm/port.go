package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Port is a river port where passengers embark or land.
type Port struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
	City      string    `gorm:"column:city;type:varchar(100)"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Port) TableName() string {
	return "ports"
}

func (p *Port) BeforeCreate(tx *gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}
