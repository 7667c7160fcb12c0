package kafka

import "time"

// Config содержит конфигурацию подключения к Kafka
type Config struct {
	// Brokers - список брокеров через запятую:
	//   - локально (go run): localhost:19092
	//   - в Docker: kafka:9092
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// Topic - топик для событий обработанных платежей
	Topic string `env:"KAFKA_TOPIC" envDefault:"payment.processed"`
	// WriteTimeout ограничивает время публикации одного сообщения
	WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig возвращает конфигурацию для локальной разработки.
// Актуальные значения приходят из переменных окружения через LoadEnv.
func DefaultConfig() Config {
	return Config{
		Brokers:      []string{"localhost:19092"},
		Topic:        "payment.processed",
		WriteTimeout: 5 * time.Second,
	}
}
