package messaging

import (
	"clinic-service/internal/app/config"
	"log"
	"strconv"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// NewRabbitMQ dials the broker that receives payroll events.
func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	uri := connectionURI(driverConfig.RabbitMQ)

	conn, err := amqp091.DialConfig(uri.String(), amqp091.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp091.Table{"connection_name": "clinic-service"},
	})
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ at %s:%d: %s", uri.Host, uri.Port, err.Error())
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn
}

// connectionURI escapes credentials and the vhost, which a hand formatted
// amqp:// string would not.
func connectionURI(cfg config.RabbitMQ) amqp091.URI {
	uri := amqp091.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     5672,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    cfg.VirtualHost,
	}
	if port, err := strconv.Atoi(cfg.Port); err == nil {
		uri.Port = port
	}
	if uri.Vhost == "" {
		uri.Vhost = "/"
	}
	return uri
}
