package observability

import (
	"github.com/segmentio/kafka-go"
)

// KafkaHeadersCarrier адаптирует заголовки kafka.Message к propagation.TextMapCarrier
type KafkaHeadersCarrier struct {
	headers *[]kafka.Header
}

// NewKafkaHeadersCarrier создаёт carrier поверх заголовков сообщения (Inject пишет прямо в msg.Headers)
func NewKafkaHeadersCarrier(headers *[]kafka.Header) *KafkaHeadersCarrier {
	return &KafkaHeadersCarrier{headers: headers}
}

// Get возвращает значение первого заголовка с ключом key
func (c *KafkaHeadersCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Set заменяет значение заголовка key или добавляет новый
func (c *KafkaHeadersCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

// Keys возвращает ключи всех заголовков
func (c *KafkaHeadersCarrier) Keys() []string {
	out := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		out = append(out, h.Key)
	}
	return out
}
