package usecase

import (
	"context"
	"encoding/json"
	"time"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
	"FractalPulse/internal/services/classify"
	pkgkafka "FractalPulse/pkg/kafka"
)

// KafkaHeadersHandler consumes published header events and writes them to storage.
type KafkaHeadersHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaHeadersHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaHeadersHandler {
	return &KafkaHeadersHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaHeadersHandler) Topic() string { return h.topic }

// incoming message schema mirrors KafkaHeaderPublisher's payload
func (h *KafkaHeadersHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol          string  `json:"symbol"`
		Horizon         string  `json:"horizon"`
		TS              int64   `json:"ts"`
		Signal          string  `json:"signal"`
		ConfidenceScore float64 `json:"confidenceScore"`
		ConfidenceLevel string  `json:"confidenceLevel"`
		Phase           string  `json:"phase"`
		PhaseConfidence float64 `json:"phaseConfidence"`
		RiskLevel       string  `json:"riskLevel"`
		ConsensusScore  float64 `json:"consensusScore"`
		Dispersion      float64 `json:"dispersion"`
		Reliability     float64 `json:"reliability"`
		Entropy         float64 `json:"entropy"`
		QualityScore    float64 `json:"qualityScore"`
		AvgMaxDD        float64 `json:"avgMaxDD"`
		VolRegime       string  `json:"volRegime"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.TS > 1e11 { // ms
		m.TS = m.TS / 1000
	}
	// E2E latency from derive time to storage (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.TS, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.SignalHeader{
		Symbol:          m.Symbol,
		Horizon:         m.Horizon,
		Timestamp:       time.Unix(m.TS, 0),
		Signal:          classify.SignalOrNeutral(m.Signal),
		ConfidenceScore: m.ConfidenceScore,
		ConfidenceLevel: models.ConfidenceLevel(m.ConfidenceLevel),
		Phase:           models.Phase(m.Phase),
		PhaseConfidence: m.PhaseConfidence,
		RiskLevel:       models.RiskLevel(m.RiskLevel),
		ConsensusScore:  m.ConsensusScore,
		Dispersion:      m.Dispersion,
		Reliability:     m.Reliability,
		Entropy:         m.Entropy,
		QualityScore:    m.QualityScore,
		AvgMaxDD:        m.AvgMaxDD,
		VolRegime:       models.VolRegime(m.VolRegime),
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordHeaderRouted("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaHeadersHandler)(nil)
