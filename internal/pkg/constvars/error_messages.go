package constvars

// Client-facing messages. Keep these stable: the web clients key copy off them.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process your request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "You are not logged in, please login first"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again"

	ErrClientProviderNotFound      = "Provider not found"
	ErrClientProviderUnavailable   = "Provider is currently not accepting bookings"
	ErrClientSlotTaken             = "The selected slot is no longer available, please pick another one"
	ErrClientSlotOutsideWindow     = "The selected slot is not a bookable time for this provider"
	ErrClientAppointmentNotFound   = "Appointment not found"
	ErrClientInvalidTransition     = "The appointment cannot be moved to the requested state"
	ErrClientInvalidSignature      = "Invalid settlement signature"
	ErrClientAmountMismatch        = "Settlement amount does not match the appointment"
	ErrClientSettlementUnavailable = "Payment provider is temporarily unavailable, your reservation is still held"
)

// Dev-facing messages, logged and returned outside production.
const (
	ErrDevValidationFailed   = "request payload validation failed"
	ErrDevInvalidInput       = "invalid input"
	ErrDevCannotParseJSON    = "failed to parse JSON body"
	ErrDevCannotMarshalJSON  = "failed to marshal value to JSON"
	ErrDevMissingRequestID   = "request id missing from context"
	ErrDevServerDeadline     = "server deadline exceeded while processing request"
	ErrDevServerProcess      = "unexpected server error"
	ErrDevURLParamValidation = "invalid url parameter: %s"

	ErrDevDBFailedToFindDocument   = "mongodb failed to find document"
	ErrDevDBFailedToInsertDocument = "mongodb failed to insert document"
	ErrDevDBFailedToUpdateDocument = "mongodb failed to update document"
	ErrDevDBFailedToIterateCursor  = "mongodb failed to iterate cursor"
	ErrDevDBStringNotObjectID      = "string is not a valid mongodb object id"

	ErrDevRedisGetData   = "redis failed to get data"
	ErrDevRedisSetData   = "redis failed to set data"
	ErrDevRedisDelete    = "redis failed to delete data"
	ErrDevRedisSetNX     = "redis failed to set data with NX"
	ErrDevRedisUnlock    = "redis lock is not owned by this client"
	ErrDevRabbitMQPubMsg = "rabbitmq failed to publish message to queue %s"
	ErrDevMinioPutObject = "minio failed to put object into bucket %s"

	ErrDevProviderNotFound      = "provider does not exist"
	ErrDevProviderUnavailable   = "provider is flagged unavailable"
	ErrDevSlotConflict          = "slot already reserved for provider/date/time"
	ErrDevSlotOutsideWindow     = "slot label is outside the provider booking grid"
	ErrDevAppointmentNotFound   = "appointment does not exist"
	ErrDevInvalidTransition     = "appointment state transition not permitted"
	ErrDevInvalidSignature      = "settlement callback HMAC verification failed"
	ErrDevUnknownCallbackStatus = "settlement callback status is not a recognized outcome"
	ErrDevAmountMismatch        = "settlement callback amount differs from appointment amount"
	ErrDevSettlementUnavailable = "payment gateway unreachable after bounded retries"
	ErrDevNotRecordOwner        = "caller does not own the appointment record"

	ErrDevAuthTokenMissing          = "authorization token missing"
	ErrDevAuthTokenInvalidOrExpired = "authorization token invalid or expired"
)

var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of: %s",
	"gte":      "must be greater than or equal to %s",
	"url":      "must be a valid URL",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
}
