// Package events публикует события приложения (создание пользователя,
// активация подписки, жизненный цикл задач) в RabbitMQ. Публикация
// необязательна: при пустом адресе брокера используется заглушка, а ошибки
// публикации никогда не приводят к ошибке запроса.
package events

import (
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/freemium-todo/internal/lib/rabbitmq"
)

// Типы публикуемых событий.
const (
	UserCreated           = "user.created"
	SubscriptionActivated = "subscription.activated"
	TaskCreated           = "task.created"
	TaskDeleted           = "task.deleted"
)

// Event сообщение о событии приложения.
type Event struct {
	Type       string    `json:"type"`
	UserUID    string    `json:"user_uid"`
	TaskID     string    `json:"task_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher публикует события приложения.
type Publisher interface {
	Publish(event Event) error
}

// AMQPPublisher публикует события в exchange todo.events.
type AMQPPublisher struct {
	ch *amqp.Channel
}

// NewAMQPPublisher подключается к брокеру и готовит канал публикации.
func NewAMQPPublisher(amqpURL string) (*AMQPPublisher, error) {
	conn, err := rabbitmq.Connect(amqpURL, 3, time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		return nil, err
	}
	return &AMQPPublisher{ch: ch}, nil
}

// Publish отправляет событие; ключом маршрутизации служит тип события.
func (p *AMQPPublisher) Publish(event Event) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.EventsExchange, event.Type, event)
}

// NoopPublisher используется, когда брокер не сконфигурирован.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(_ Event) error { return nil }
