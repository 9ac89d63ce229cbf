package constants

const (
	MsgInvalidJSON         = "invalid JSON"
	MsgValidationFailed    = "Request validation failed"
	MsgCapacityExceeded    = "Not enough seats left for this departure"
	MsgScheduleMismatch    = "The vessel does not sail on that date or time"
	MsgVesselOccupied      = "Vessel is already assigned to another active operator"
	MsgVesselUnavailable   = "Vessel is not available for sale"
	MsgNotFound            = "Resource not found"
	MsgInvalidTransition   = "Sale can no longer change status"
	MsgDuplicateSaleNumber = "Sale number collision, please retry"
	MsgInternal            = "Internal server error"
	MsgSeatsAvailable      = "Seats available"
)
