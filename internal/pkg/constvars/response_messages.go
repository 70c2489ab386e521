package constvars

const (
	ResponseUnknown = "unknown"

	SuccessListProviders      = "Successfully fetched providers"
	SuccessCreateProvider     = "Successfully created provider"
	SuccessUpdateProvider     = "Successfully updated provider"
	SuccessUploadImage        = "Successfully uploaded provider image"
	SuccessListSlots          = "Successfully fetched available slots"
	SuccessReserveSlot        = "Successfully reserved slot, continue to payment"
	SuccessCancelAppointment  = "Successfully cancelled appointment"
	SuccessCompleteAppointmnt = "Successfully marked appointment as completed"
	SuccessListAppointments   = "Successfully fetched appointments"
	SuccessInitiateSettlement = "Successfully initiated payment"
	SuccessSettlementCallback = "Settlement callback processed"
)
