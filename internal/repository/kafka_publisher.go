package repository

import (
	"context"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
	pkgkafka "FractalPulse/pkg/kafka"
)

// KafkaHeaderPublisher implements Publisher for the headers topic.
type KafkaHeaderPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaHeaderPublisher creates a Kafka header publisher.
func NewKafkaHeaderPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaHeaderPublisher{producer: producer, topic: topic}
}

func headerPayload(h *models.SignalHeader) map[string]interface{} {
	return map[string]interface{}{
		"symbol":          h.Symbol,
		"horizon":         h.Horizon,
		"ts":              h.Timestamp.Unix(),
		"signal":          string(h.Signal),
		"confidenceScore": h.ConfidenceScore,
		"confidenceLevel": string(h.ConfidenceLevel),
		"phase":           string(h.Phase),
		"phaseConfidence": h.PhaseConfidence,
		"riskLevel":       string(h.RiskLevel),
		"consensusScore":  h.ConsensusScore,
		"dispersion":      h.Dispersion,
		"reliability":     h.Reliability,
		"entropy":         h.Entropy,
		"qualityScore":    h.QualityScore,
		"avgMaxDD":        h.AvgMaxDD,
		"volRegime":       string(h.VolRegime),
	}
}

func (p *KafkaHeaderPublisher) Publish(ctx context.Context, h *models.SignalHeader) error {
	return p.producer.Publish(ctx, p.topic, []byte(h.Symbol), headerPayload(h))
}

func (p *KafkaHeaderPublisher) PublishBatch(ctx context.Context, headers []*models.SignalHeader) error {
	if len(headers) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(headers))
	for i, h := range headers {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(h.Symbol),
			Value: headerPayload(h),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaHeaderPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
