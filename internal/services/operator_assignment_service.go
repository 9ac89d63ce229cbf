package services

import (
	"context"
	"fmt"
	"strings"

	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/logging"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"gorm.io/gorm"
)

// Occupancy is the advisory answer for the operator form.
type Occupancy struct {
	VesselID     string `json:"vessel_id"`
	Occupied     bool   `json:"occupied"`
	OperatorID   string `json:"operator_id,omitempty"`
	OperatorName string `json:"operator_name,omitempty"`
}

// OperatorAssignmentService keeps at most one ACTIVO operator per vessel.
type OperatorAssignmentService struct {
	db        *gorm.DB
	operators *repositories.OperatorRepository
	catalog   *repositories.CatalogRepository
	locker    locks.Locker
}

func NewOperatorAssignmentService(db *gorm.DB, locker locks.Locker) *OperatorAssignmentService {
	return &OperatorAssignmentService{
		db:        db,
		operators: repositories.NewOperatorRepository(db),
		catalog:   repositories.NewCatalogRepository(db),
		locker:    locker,
	}
}

// IsVesselOccupied reports whether an ACTIVO operator other than
// excludeOperatorID holds vesselID.
func (s *OperatorAssignmentService) IsVesselOccupied(ctx context.Context, vesselID, excludeOperatorID string) (*Occupancy, error) {
	vessel, err := s.catalog.GetVessel(ctx, vesselID)
	if err != nil {
		return nil, err
	}
	if vessel == nil {
		return nil, fmt.Errorf("vessel %s: %w", vesselID, ErrNotFound)
	}

	op, err := s.operators.FindActiveOnVessel(ctx, vesselID, strings.TrimSpace(excludeOperatorID))
	if err != nil {
		return nil, err
	}
	occ := &Occupancy{VesselID: vesselID}
	if op != nil {
		occ.Occupied = true
		occ.OperatorID = op.ID
		occ.OperatorName = op.FullName
	}
	return occ, nil
}

// AssignVessel links the operator to the vessel. It fails with
// OperatorVesselConflictError when another ACTIVO operator holds it.
func (s *OperatorAssignmentService) AssignVessel(ctx context.Context, operatorID, vesselID string) (*gormModels.Operator, error) {
	if strings.TrimSpace(vesselID) == "" {
		return nil, newValidationError("vessel_id", "is required")
	}

	release, err := s.locker.Lock(ctx, "vessel|"+vesselID)
	if err != nil {
		return nil, fmt.Errorf("vessel %s: %w", vesselID, err)
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		operators := s.operators.WithTx(tx)

		// Vessel row first, then operator row, same order as SetStatus.
		vessel, err := s.catalog.WithTx(tx).LockVessel(ctx, vesselID)
		if err != nil {
			return err
		}
		if vessel == nil {
			return fmt.Errorf("vessel %s: %w", vesselID, ErrNotFound)
		}

		op, err := operators.LockByID(ctx, operatorID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("operator %s: %w", operatorID, ErrNotFound)
		}

		// An INACTIVO operator does not hold the vessel; SetStatus checks
		// again when it is reactivated.
		if op.Status == constants.OperatorActive {
			holder, err := operators.FindActiveOnVessel(ctx, vesselID, operatorID)
			if err != nil {
				return err
			}
			if holder != nil {
				return &OperatorVesselConflictError{VesselID: vesselID, OperatorID: holder.ID, OperatorName: holder.FullName}
			}
		}

		return operators.SetVessel(ctx, operatorID, &vesselID)
	})
	if err != nil {
		return nil, err
	}

	logging.Info("operator assigned to vessel", "operator_id", operatorID, "vessel_id", vesselID)
	return s.get(ctx, operatorID)
}

// ReleaseVessel clears the operator's vessel.
func (s *OperatorAssignmentService) ReleaseVessel(ctx context.Context, operatorID string) (*gormModels.Operator, error) {
	op, err := s.get(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.operators.SetVessel(ctx, operatorID, nil); err != nil {
		return nil, err
	}
	logging.Info("operator released vessel", "operator_id", operatorID, "vessel_id", op.AssignedVesselID)
	return s.get(ctx, operatorID)
}

// SetStatus changes the operator status. Reactivating an operator whose
// vessel is now held by someone else is a conflict.
func (s *OperatorAssignmentService) SetStatus(ctx context.Context, operatorID string, status constants.OperatorStatus) (*gormModels.Operator, error) {
	if status != constants.OperatorActive && status != constants.OperatorInactive {
		return nil, newValidationError("status", "must be ACTIVO or INACTIVO")
	}

	op, err := s.get(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	if status == constants.OperatorActive && op.AssignedVesselID != nil {
		vesselID := *op.AssignedVesselID
		release, err := s.locker.Lock(ctx, "vessel|"+vesselID)
		if err != nil {
			return nil, fmt.Errorf("vessel %s: %w", vesselID, err)
		}
		defer release()

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			operators := s.operators.WithTx(tx)
			if _, err := s.catalog.WithTx(tx).LockVessel(ctx, vesselID); err != nil {
				return err
			}
			holder, err := operators.FindActiveOnVessel(ctx, vesselID, operatorID)
			if err != nil {
				return err
			}
			if holder != nil {
				return &OperatorVesselConflictError{VesselID: vesselID, OperatorID: holder.ID, OperatorName: holder.FullName}
			}
			return operators.UpdateStatus(ctx, operatorID, status)
		})
		if err != nil {
			return nil, err
		}
		return s.get(ctx, operatorID)
	}

	if err := s.operators.UpdateStatus(ctx, operatorID, status); err != nil {
		return nil, err
	}
	return s.get(ctx, operatorID)
}

func (s *OperatorAssignmentService) get(ctx context.Context, operatorID string) (*gormModels.Operator, error) {
	op, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("operator %s: %w", operatorID, ErrNotFound)
	}
	return op, nil
}
