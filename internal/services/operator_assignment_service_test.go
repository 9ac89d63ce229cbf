package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
)

func TestGuard_OccupancyAndConflict(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	juan, err := d.catalog.CreateOperator(ctx, CreateOperatorInput{FullName: "Juan Tapullima", Document: "40112233", AssignedVesselID: dep.vessel.ID})
	if err != nil {
		t.Fatalf("CreateOperator() error = %v", err)
	}
	if juan.AssignedVesselID == nil || *juan.AssignedVesselID != dep.vessel.ID {
		t.Fatalf("AssignedVesselID = %v", juan.AssignedVesselID)
	}
	luis, err := d.catalog.CreateOperator(ctx, CreateOperatorInput{FullName: "Luis Ríos", Document: "40998877"})
	if err != nil {
		t.Fatalf("CreateOperator() error = %v", err)
	}

	occ, err := d.guard.IsVesselOccupied(ctx, dep.vessel.ID, "")
	if err != nil {
		t.Fatalf("IsVesselOccupied() error = %v", err)
	}
	if !occ.Occupied || occ.OperatorID != juan.ID {
		t.Errorf("occupancy = %+v, want held by juan", occ)
	}

	// Editing juan himself is not a conflict.
	occ, err = d.guard.IsVesselOccupied(ctx, dep.vessel.ID, juan.ID)
	if err != nil {
		t.Fatalf("IsVesselOccupied() error = %v", err)
	}
	if occ.Occupied {
		t.Error("excluded operator should not occupy the vessel")
	}

	_, err = d.guard.AssignVessel(ctx, luis.ID, dep.vessel.ID)
	var ce *OperatorVesselConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want OperatorVesselConflictError", err)
	}
	if ce.OperatorID != juan.ID {
		t.Errorf("conflict names %s, want %s", ce.OperatorID, juan.ID)
	}

	// Reassigning juan to his own vessel is allowed.
	if _, err := d.guard.AssignVessel(ctx, juan.ID, dep.vessel.ID); err != nil {
		t.Errorf("self reassignment: %v", err)
	}
}

func TestGuard_InactiveHolderFreesVessel(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	juan, err := d.catalog.CreateOperator(ctx, CreateOperatorInput{FullName: "Juan", Document: "1", AssignedVesselID: dep.vessel.ID})
	if err != nil {
		t.Fatalf("CreateOperator() error = %v", err)
	}
	luis, err := d.catalog.CreateOperator(ctx, CreateOperatorInput{FullName: "Luis", Document: "2"})
	if err != nil {
		t.Fatalf("CreateOperator() error = %v", err)
	}

	if _, err := d.guard.SetStatus(ctx, juan.ID, constants.OperatorInactive); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if _, err := d.guard.AssignVessel(ctx, luis.ID, dep.vessel.ID); err != nil {
		t.Fatalf("AssignVessel() error = %v", err)
	}

	// Juan still points at the vessel; reactivating him would make two holders.
	_, err = d.guard.SetStatus(ctx, juan.ID, constants.OperatorActive)
	var ce *OperatorVesselConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want OperatorVesselConflictError", err)
	}

	if _, err := d.guard.ReleaseVessel(ctx, juan.ID); err != nil {
		t.Fatalf("ReleaseVessel() error = %v", err)
	}
	reactivated, err := d.guard.SetStatus(ctx, juan.ID, constants.OperatorActive)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if reactivated.AssignedVesselID != nil || reactivated.Status != constants.OperatorActive {
		t.Errorf("got %+v", reactivated)
	}
}

func TestGuard_NotFound(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	if _, err := d.guard.IsVesselOccupied(ctx, "missing", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := d.guard.AssignVessel(ctx, "missing", dep.vessel.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := d.guard.SetStatus(ctx, "missing", "RETIRADO"); err == nil {
		t.Error("expected error for unknown status")
	}
}

// unsharedLocker never blocks, like two instances each with their own
// in-process locks.
type unsharedLocker struct{}

func (unsharedLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

func TestGuard_ConcurrentAssignmentsKeepOneHolder(t *testing.T) {
	for name, guardFor := range map[string]func(d *desk) *OperatorAssignmentService{
		"shared locker":   func(d *desk) *OperatorAssignmentService { return d.guard },
		"unshared locker": func(d *desk) *OperatorAssignmentService { return NewOperatorAssignmentService(d.db, unsharedLocker{}) },
	} {
		t.Run(name, func(t *testing.T) {
			d := newDesk(t)
			dep := d.seed(20, everyDay, []string{"07:00"})
			guard := guardFor(d)
			ctx := context.Background()

			const attempts = 8
			ids := make([]string, attempts)
			for i := range ids {
				op, err := d.catalog.CreateOperator(ctx, CreateOperatorInput{
					FullName: fmt.Sprintf("Operador %d", i),
					Document: fmt.Sprintf("4100000%d", i),
				})
				if err != nil {
					t.Fatalf("CreateOperator() error = %v", err)
				}
				ids[i] = op.ID
			}

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				assigned  int
				conflicts int
			)
			for _, id := range ids {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					_, err := guard.AssignVessel(ctx, id, dep.vessel.ID)
					mu.Lock()
					defer mu.Unlock()
					var ce *OperatorVesselConflictError
					switch {
					case err == nil:
						assigned++
					case errors.As(err, &ce):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}(id)
			}
			wg.Wait()

			if assigned != 1 || conflicts != attempts-1 {
				t.Fatalf("assigned=%d conflicts=%d, want 1 and %d", assigned, conflicts, attempts-1)
			}

			var holders int64
			d.db.Model(&gormModels.Operator{}).
				Where("assigned_vessel_id = ? AND status = ?", dep.vessel.ID, constants.OperatorActive).
				Count(&holders)
			if holders != 1 {
				t.Errorf("active operators on vessel = %d, want 1", holders)
			}
		})
	}
}
