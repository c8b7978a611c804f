// Package service holds outbound integrations of the booking workflow.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	q "github.com/iliyamo/exam-appointment-booking/internal/queue"
)

// Publisher sends appointment events to RabbitMQ, dialling once per
// message.
type Publisher struct {
	url string
	now func() time.Time
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher { return &Publisher{url: url, now: time.Now} }

// PublishAppointmentConfirmed publishes a persistent AppointmentConfirmedEvent
// on the appointment.confirmed queue.
func (p *Publisher) PublishAppointmentConfirmed(ctx context.Context, a *model.Appointment, lang string) error {
	body, err := json.Marshal(q.NewAppointmentConfirmed(a, lang, p.now()))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.AppointmentConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.AppointmentConfirmedQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
