package producer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"events/internal/application/common"
	"events/pkg/broker"
	"events/pkg/metrics"

	"github.com/IBM/sarama"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	headerMessageID = "message-id"
	headerEventType = "event-type"
)

type Producer interface {
	ProduceMessage(ctx context.Context, msg Message) error
	HealthCheck(ctx context.Context) error
}

// Message - одна запись outbox, готовая к отправке
type Message struct {
	OutboxID  int
	EventID   int64
	EventType string
	Payload   []byte
}

type KafkaProducerConfig struct {
	broker      *broker.KafkaBroker
	logger      *zap.SugaredLogger
	maxAttempts int
	m           *metrics.Metrics
}

func NewProducer(broker *broker.KafkaBroker, logger *zap.SugaredLogger, maxAttempts int, m *metrics.Metrics) *KafkaProducerConfig {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &KafkaProducerConfig{
		broker:      broker,
		logger:      logger,
		maxAttempts: maxAttempts,
		m:           m,
	}
}

// HealthCheck проверяет доступность Kafka через broker
func (p *KafkaProducerConfig) HealthCheck(ctx context.Context) error {
	if p.broker == nil {
		return errors.New("kafka broker is not initialized")
	}

	// Используем метод HealthCheck из KafkaBroker для реальной проверки
	return p.broker.HealthCheck(ctx)
}

// ProduceMessage отправляет сообщение с ретраями. Ключ - id события, чтобы изменения
// одного события попадали в одну партицию по порядку.
func (p *KafkaProducerConfig) ProduceMessage(ctx context.Context, m Message) error {
	topic := p.broker.ProducerTopic
	id := m.OutboxID
	var lastErr error

	msgID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("generate message id: %w", err)
	}
	headers := []sarama.RecordHeader{
		{Key: []byte(headerMessageID), Value: []byte(msgID.String())},
		{Key: []byte(headerEventType), Value: []byte(m.EventType)},
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic:     topic,
			Key:       sarama.StringEncoder(strconv.FormatInt(m.EventID, 10)),
			Value:     sarama.ByteEncoder(m.Payload),
			Headers:   headers,
			Timestamp: time.Now(),
		}

		t0 := time.Now()
		part, off, err := p.broker.SyncProducer.SendMessage(msg)
		rt := time.Since(t0)

		//Metric: attempt latency: ok/error
		if p.m != nil {
			res := "ok"
			if err != nil {
				res = "error"
			}
			p.m.Kafka.ProducerAttemptLatencySeconds.WithLabelValues(topic, res).Observe(rt.Seconds())
		}

		if err == nil {
			// Metric success
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "success").Inc()
				p.m.Kafka.ProducerSuccessAttempts.WithLabelValues(topic).Observe(float64(attempt))
			}
			p.logger.Infof("[outboxID %d] sent topic=%s partition=%d offset=%d attempt=%d rt=%s",
				id, p.broker.ProducerTopic, part, off, attempt, rt)
			return nil
		}

		lastErr = err

		var kerr sarama.KError
		if errors.As(err, &kerr) {
			if isPermanent(kerr) {
				if p.m != nil {
					p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "permanent").Inc()
				}
				p.logger.Errorf("[outboxID %d] permanent kafka error attempt=%d rt=%s kafka_error=%s code=%d", id, attempt, rt, kerr.Error(), int16(kerr))
				return fmt.Errorf("permanent kafka error: %w", kerr)
			}

			p.logger.Warnf("[outboxID %d] retryable kafka error attempt=%d rt=%s reason=%s code=%d",
				id, attempt, rt, ClassifyRetry(kerr), int16(kerr))
		} else {
			p.logger.Warnf("[outboxID %d] retryable non-kafka error attempt=%d rt=%s reason=%s err=%v",
				id, attempt, rt, ClassifyRetry(err), err)
		}

		if attempt == p.maxAttempts {
			break
		}

		if err := common.SleepCtx(ctx, common.NextBackoffWithJitter(attempt-1)); err != nil {
			// отмена/таймаут контекста считаем как canceled
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "canceled").Inc()
			}
			return err
		}
	}
	if p.m != nil {
		p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "failed").Inc()
	}
	p.logger.Errorf("[outboxID %d] produce_failed after %d attempts: %v", id, p.maxAttempts, lastErr)
	return fmt.Errorf("produce failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func isPermanent(k sarama.KError) bool {
	switch k {
	case sarama.ErrTopicAuthorizationFailed,
		sarama.ErrClusterAuthorizationFailed,
		sarama.ErrInvalidRequest,
		sarama.ErrInvalidMessage,
		sarama.ErrMessageSizeTooLarge,
		sarama.ErrSASLAuthenticationFailed:
		return true
	default:
		return false
	}
}

// ClassifyRetry - короткая причина ретрая для логов
func ClassifyRetry(err error) string {
	var k sarama.KError
	if errors.As(err, &k) {
		switch k {
		case sarama.ErrLeaderNotAvailable:
			return "leader_not_available"
		case sarama.ErrRequestTimedOut:
			return "broker_timeout"
		case sarama.ErrNotEnoughReplicas, sarama.ErrNotEnoughReplicasAfterAppend:
			return "not_enough_replicas"
		default:
			return k.Error()
		}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "net_timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "client_deadline"
	}
	return "other"
}
