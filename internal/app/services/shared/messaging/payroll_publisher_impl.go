package messaging

import (
	"clinic-service/internal/app/contracts"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/dto/requests"
	"clinic-service/internal/pkg/exceptions"
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

type payrollPublisher struct {
	Channel *amqp091.Channel
	Queue   string
	mu      sync.Mutex
}

func NewPayrollPublisher(rabbitMQConnection *amqp091.Connection, queue string) (contracts.PayrollEventPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		return nil, err
	}

	return &payrollPublisher{
		Channel: channel,
		Queue:   queue,
	}, nil
}

func (p *payrollPublisher) PublishPayrollCalculated(ctx context.Context, event *requests.PayrollCalculatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	headers := amqp091.Table{
		"message_type":     "JSON",
		"event_type":       constvars.PayrollCalculatedEventType,
		"requeue_strategy": "DROP",
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Priority:     0,
		Headers:      headers,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.Queue)
	}
	return nil
}
