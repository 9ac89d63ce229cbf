package constants

type (
	VesselStatus   string
	SaleStatus     string
	OperatorStatus string
	PaymentType    string
	PaymentMethod  string
)

const (
	VesselActive      VesselStatus = "ACTIVE"
	VesselMaintenance VesselStatus = "MAINTENANCE"
	VesselInactive    VesselStatus = "INACTIVE"
)

func (s VesselStatus) Valid() bool {
	switch s {
	case VesselActive, VesselMaintenance, VesselInactive:
		return true
	}
	return false
}

const (
	SaleConfirmed SaleStatus = "CONFIRMED"
	SaleVoided    SaleStatus = "VOIDED"
	SaleRefunded  SaleStatus = "REFUNDED"
)

const (
	OperatorActive   OperatorStatus = "ACTIVO"
	OperatorInactive OperatorStatus = "INACTIVO"
)

const (
	PaymentSingle PaymentType = "UNICO"
	PaymentHybrid PaymentType = "HIBRIDO"
)

const (
	MethodCash     PaymentMethod = "EFECTIVO"
	MethodCard     PaymentMethod = "TARJETA"
	MethodTransfer PaymentMethod = "TRANSFERENCIA"
	MethodYape     PaymentMethod = "YAPE"
	MethodPlin     PaymentMethod = "PLIN"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodYape, MethodPlin:
		return true
	}
	return false
}

// PaymentTolerance is the largest rounding difference accepted between the
// declared payment amounts and the sale total.
const PaymentTolerance = 0.01

// SaleNumberPrefix prefixes every human-facing sale number.
const SaleNumberPrefix = "VTA"
