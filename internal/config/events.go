package config

import (
	"os"
	"time"
)

// EventsConfig configures publication of talk lifecycle events. Publishing is
// off unless a broker URL is provided, so a dashboard without RabbitMQ keeps
// working.
type EventsConfig struct {
	Enabled bool
	URL     string // RABBITMQ_URL, falling back to AMQP_URL
	Queue   string // EVENTS_QUEUE
	LogDir  string // directory the audit consumer appends to (EVENTS_LOG_DIR)
	// DialTimeout bounds the TCP dial and AMQP handshake (EVENTS_DIAL_TIMEOUT).
	DialTimeout time.Duration
}

// LoadEventsConfig reads the broker settings from the environment.
func LoadEventsConfig() EventsConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return EventsConfig{
		Enabled: url != "" && envBool("EVENTS_ENABLED", true),
		URL:     url,
		Queue:   getenv("EVENTS_QUEUE", "talk.lifecycle"),
		LogDir:  getenv("EVENTS_LOG_DIR", "logs"),

		DialTimeout: parseDur(getenv("EVENTS_DIAL_TIMEOUT", "2s")),
	}
}
