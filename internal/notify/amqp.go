package notify

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
)

const confirmationQueue = "booking_confirmations"

// AMQPNotifier publishes confirmations to a durable queue consumed by the
// mail worker. Messages are persistent so a broker restart does not lose
// pending confirmations.
type AMQPNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, apperr.Internal(err, "dial amqp broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, apperr.Internal(err, "open amqp channel")
	}

	_, err = ch.QueueDeclare(confirmationQueue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, apperr.Internal(err, "declare confirmation queue")
	}

	return &AMQPNotifier{conn: conn, channel: ch}, nil
}

func (n *AMQPNotifier) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	body, err := json.Marshal(c)
	if err != nil {
		return apperr.Internal(err, "marshal confirmation")
	}

	err = n.channel.PublishWithContext(ctx, "", confirmationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return apperr.Internal(err, "publish confirmation")
	}
	return nil
}

func (n *AMQPNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}
