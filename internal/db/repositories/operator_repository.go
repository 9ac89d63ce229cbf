package repositories

import (
	"context"
	"fmt"

	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OperatorRepository handles operator rows and their vessel link.
type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) WithTx(tx *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: tx}
}

func (r *OperatorRepository) Create(ctx context.Context, o *gormModels.Operator) error {
	if err := r.db.WithContext(ctx).Omit("AssignedVessel").Create(o).Error; err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*gormModels.Operator, error) {
	return first[gormModels.Operator](ctx, r.db, "operator", "id = ?", id)
}

// LockByID reads the operator with a row lock.
func (r *OperatorRepository) LockByID(ctx context.Context, id string) (*gormModels.Operator, error) {
	return first[gormModels.Operator](ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "operator", "id = ?", id)
}

func (r *OperatorRepository) List(ctx context.Context) ([]gormModels.Operator, error) {
	var ops []gormModels.Operator
	if err := r.db.WithContext(ctx).Order("full_name ASC").Find(&ops).Error; err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return ops, nil
}

// FindActiveOnVessel returns the first ACTIVO operator linked to vesselID,
// ignoring excludeID when it is not empty.
func (r *OperatorRepository) FindActiveOnVessel(ctx context.Context, vesselID, excludeID string) (*gormModels.Operator, error) {
	q := r.db.WithContext(ctx).
		Where("assigned_vessel_id = ? AND status = ?", vesselID, constants.OperatorActive)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var op gormModels.Operator
	res := q.Order("created_at ASC").Limit(1).Find(&op)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to check vessel occupancy: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &op, nil
}

// SetVessel links or, with nil, unlinks the operator's vessel.
func (r *OperatorRepository) SetVessel(ctx context.Context, operatorID string, vesselID *string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Operator{}).
		Where("id = ?", operatorID).
		Update("assigned_vessel_id", vesselID).Error
	if err != nil {
		return fmt.Errorf("failed to update operator vessel: %w", err)
	}
	return nil
}

func (r *OperatorRepository) UpdateStatus(ctx context.Context, operatorID string, status constants.OperatorStatus) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Operator{}).
		Where("id = ?", operatorID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update operator status: %w", err)
	}
	return nil
}
