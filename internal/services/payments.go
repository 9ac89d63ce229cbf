package services

import (
	"fmt"
	"math"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
)

// PaymentInput is one declared payment method.
type PaymentInput struct {
	Method constants.PaymentMethod `json:"method"`
	Amount float64                 `json:"amount"`
}

// buildPayments checks the payment breakdown against unitPrice*quantity and
// returns the rows to store with the sale total.
func buildPayments(ptype constants.PaymentType, methods []PaymentInput, unitPrice float64, quantity int) ([]gormModels.SalePayment, float64, error) {
	total := common.RoundMoney(unitPrice * float64(quantity))

	switch ptype {
	case constants.PaymentSingle:
		if len(methods) != 1 {
			return nil, 0, newValidationError("payments", "UNICO payment needs exactly one method")
		}
		if !methods[0].Method.Valid() {
			return nil, 0, newValidationError("payments", fmt.Sprintf("unknown payment method %q", methods[0].Method))
		}
		// A zero amount means "the total"; anything else must match it.
		if amt := methods[0].Amount; amt != 0 && math.Abs(amt-total) >= constants.PaymentTolerance {
			return nil, 0, newValidationError("payments",
				fmt.Sprintf("payment amount %.2f does not match the sale total %.2f", amt, total))
		}
		return []gormModels.SalePayment{{Method: methods[0].Method, Amount: total}}, total, nil

	case constants.PaymentHybrid:
		if len(methods) < 2 {
			return nil, 0, newValidationError("payments", "HIBRIDO payment needs at least two methods")
		}
		var sum float64
		rows := make([]gormModels.SalePayment, 0, len(methods))
		for i, m := range methods {
			if !m.Method.Valid() {
				return nil, 0, newValidationError("payments", fmt.Sprintf("unknown payment method %q", m.Method))
			}
			if m.Amount <= 0 {
				return nil, 0, newValidationError("payments", fmt.Sprintf("amount of method %d must be greater than zero", i+1))
			}
			sum += m.Amount
			rows = append(rows, gormModels.SalePayment{Method: m.Method, Amount: common.RoundMoney(m.Amount)})
		}
		if math.Abs(sum-total) >= constants.PaymentTolerance {
			return nil, 0, newValidationError("payments",
				fmt.Sprintf("payment methods sum to %.2f but the sale total is %.2f", sum, total))
		}
		return rows, total, nil
	}

	return nil, 0, newValidationError("payment_type", "must be UNICO or HIBRIDO")
}
