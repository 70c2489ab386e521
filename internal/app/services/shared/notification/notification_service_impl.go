package notification

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	notificationServiceInstance contracts.NotificationService
	onceNotificationService     sync.Once
)

type notificationService struct {
	conn      *amqp091.Connection
	queueName string
	Log       *zap.Logger
}

func NewNotificationService(conn *amqp091.Connection, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.NotificationService {
	onceNotificationService.Do(func() {
		notificationServiceInstance = &notificationService{
			conn:      conn,
			queueName: internalConfig.Notification.MailerQueue,
			Log:       logger,
		}
	})
	return notificationServiceInstance
}

// PublishAppointmentEvent hands the event to the mailer queue. Callers treat
// this as fire-and-forget: an error here must never roll back an appointment
// transition.
func (s *notificationService) PublishAppointmentEvent(ctx context.Context, event *contracts.AppointmentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	channel, err := s.conn.Channel()
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}
	defer channel.Close()

	_, err = channel.QueueDeclare(s.queueName, true, false, false, false, nil)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}

	err = channel.PublishWithContext(ctx, "", s.queueName, false, false, amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}

	s.Log.Debug("notificationService.PublishAppointmentEvent published",
		zap.String(constvars.LoggingQueueNameKey, s.queueName),
		zap.String("event", event.Event),
		zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
	)
	return nil
}
