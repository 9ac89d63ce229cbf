package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Client is a ticket buyer.
type Client struct {
	ID             string    `gorm:"column:id;primaryKey;type:uuid"`
	DocumentType   string    `gorm:"column:document_type;type:varchar(10);not null;default:DNI;uniqueIndex:idx_client_document"`
	DocumentNumber string    `gorm:"column:document_number;type:varchar(20);not null;uniqueIndex:idx_client_document"`
	FullName       string    `gorm:"column:full_name;type:varchar(150);not null"`
	Phone          string    `gorm:"column:phone;type:varchar(20)"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	c.ID = newID(c.ID)
	return nil
}
