package gorm

import (
	"time"

	"river-transit/ticketdesk/internal/constants"

	"gorm.io/gorm"
)

// Sale is a ticket purchase for one or more passengers on a departure.
type Sale struct {
	ID              string                `gorm:"column:id;primaryKey;type:uuid"`
	SaleNumber      string                `gorm:"column:sale_number;type:varchar(30);not null;uniqueIndex"`
	ClientID        string                `gorm:"column:client_id;type:uuid;not null;index"`
	RouteID         string                `gorm:"column:route_id;type:uuid;not null;index:idx_sale_departure"`
	VesselID        string                `gorm:"column:vessel_id;type:uuid;not null;index:idx_sale_departure"`
	EmbarkPortID    string                `gorm:"column:embark_port_id;type:uuid;not null"`
	TravelDate      string                `gorm:"column:travel_date;type:varchar(10);not null;index:idx_sale_departure"`
	TravelTime      string                `gorm:"column:travel_time;type:varchar(5);not null;index:idx_sale_departure"`
	EmbarkTime      string                `gorm:"column:embark_time;type:varchar(5)"`
	PassengerCount  int                   `gorm:"column:passenger_count;not null;check:passenger_count > 0"`
	UnitPrice       float64               `gorm:"column:unit_price;type:numeric(10,2);not null"`
	CustomPrice     bool                  `gorm:"column:custom_price;default:false"`
	Total           float64               `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentType     constants.PaymentType `gorm:"column:payment_type;type:varchar(10);not null"`
	Status          constants.SaleStatus  `gorm:"column:status;type:varchar(10);not null;index"`
	SellerID        string                `gorm:"column:seller_id;type:varchar(100);not null"`
	StatusReason    *string               `gorm:"column:status_reason;type:text"`
	StatusChangedAt *time.Time            `gorm:"column:status_changed_at"`
	StatusChangedBy *string               `gorm:"column:status_changed_by;type:varchar(100)"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Payments []SalePayment `gorm:"foreignKey:SaleID"`
	Client   Client        `gorm:"foreignKey:ClientID"`
}

func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

// SalePayment is one method of a sale's payment breakdown.
type SalePayment struct {
	ID     string                  `gorm:"column:id;primaryKey;type:uuid"`
	SaleID string                  `gorm:"column:sale_id;type:uuid;not null;index"`
	Method constants.PaymentMethod `gorm:"column:method;type:varchar(20);not null"`
	Amount float64                 `gorm:"column:amount;type:numeric(12,2);not null"`
}

func (SalePayment) TableName() string {
	return "sale_payments"
}

func (p *SalePayment) BeforeCreate(tx *gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}

// SaleSequence holds the last issued sale number per year.
type SaleSequence struct {
	Year      int       `gorm:"column:year;primaryKey;autoIncrement:false"`
	LastValue int64     `gorm:"column:last_value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SaleSequence) TableName() string {
	return "sale_sequences"
}
