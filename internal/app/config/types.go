package config

type (
	InternalConfig struct {
		App            App
		Booking        Booking
		PaymentGateway PaymentGateway
		JWT            JWT
		Notification   Notification
	}
	App struct {
		Env                       string
		Port                      string
		Version                   string
		Timezone                  string
		EndpointPrefix            string
		AdminAPIKey               string
		MaxRequests               int
		ShutdownTimeout           int
		MaxTimeRequestsPerSeconds int
	}
	// Booking carries the scheduling grid parameters. The operating window is
	// [DayStartHour, DayEndHour) local time at SlotMinutes granularity.
	Booking struct {
		WindowDays                 int
		SlotMinutes                int
		DayStartHour               int
		DayEndHour                 int
		PendingPaymentTTLInMinutes int
		SweepIntervalInSeconds     int
		SweepBatchSize             int
	}
	PaymentGateway struct {
		BaseUrl              string
		MerchantID           string
		ApiKey               string
		HMACSecret           string
		Currency             string
		HTTPTimeoutInSeconds int
		MaxAttempts          int
		RequestsPerSecond    int
	}
	JWT struct {
		Secret string
	}
	Notification struct {
		MailerQueue string
	}
)
