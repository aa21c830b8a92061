package config

import "github.com/joho/godotenv"

// QueueConfig is what the order-audit consumer needs.  It shares the
// broker URL resolution with Config so both processes agree on it.
type QueueConfig struct {
	Env      string
	LogLevel string
	AMQPURL  string
}

// LoadQueueConfig reads .env when present, then the environment.  Unlike
// Load it requires nothing: the consumer has no HTTP or storage settings.
func LoadQueueConfig() QueueConfig {
	_ = godotenv.Load()
	return QueueConfig{
		Env:      envStr("APP_ENV", "dev"),
		LogLevel: envStr("LOG_LEVEL", ""),
		AMQPURL:  amqpURL(),
	}
}
