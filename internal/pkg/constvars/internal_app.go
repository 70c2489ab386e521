package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
	CONTEXT_UID_KEY        ContextKey = "uid"
	CONTEXT_ROLE_KEY       ContextKey = "role"
	CONTEXT_API_KEY_AUTH   ContextKey = "api_key_auth"
)

const (
	MedibookRolePatient  = "patient"
	MedibookRoleProvider = "provider"
	MedibookRoleAdmin    = "admin"
)

const (
	ResourceProviders    = "providers"
	ResourceAppointments = "appointments"
	ResourceWebhooks     = "webhooks"
)

const (
	MongoCollectionProviders    = "providers"
	MongoCollectionAppointments = "appointments"
)

// DateKeyFormat documents the slot ledger date key layout: day_month_year,
// non zero-padded, e.g. "5_6_2025".
const DateKeyFormat = "day_month_year"

// TimeLabelLayout is the wall-clock layout of a slot time label, e.g. "14:30".
const TimeLabelLayout = "15:04"

const (
	RedisKeyPendingSweepLock = "medibook:locks:pending-sweep"
)

const (
	SettlementStatusSuccess = "success"
	SettlementStatusFailed  = "failed"
)

const (
	NotificationEventAppointmentConfirmed = "appointment_confirmed"
	NotificationEventAppointmentCancelled = "appointment_cancelled"
)
