package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// DealMetrics содержит метрики жизненного цикла сделок.
type DealMetrics struct {
	DealsCreatedTotal    prometheus.Counter
	DealsAcceptedTotal   prometheus.Counter
	DealsWaitlistedTotal prometheus.Counter
	DealsRejectedTotal   prometheus.Counter
	WorkStartedTotal     prometheus.Counter
	WorkCompletedTotal   prometheus.Counter
	ReviewsReceivedTotal prometheus.Counter

	RejectedMutationsTotal *prometheus.CounterVec
}

// NewDealMetrics создает новый экземпляр метрик.
func NewDealMetrics() *DealMetrics {
	return &DealMetrics{
		DealsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deals_created_total",
			Help: "Общее количество созданных запросов на работу",
		}),
		DealsAcceptedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deals_accepted_total",
			Help: "Общее количество принятых запросов",
		}),
		DealsWaitlistedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deals_waitlisted_total",
			Help: "Общее количество запросов в листе ожидания",
		}),
		DealsRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deals_rejected_total",
			Help: "Общее количество отклоненных запросов",
		}),
		WorkStartedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deal_work_started_total",
			Help: "Общее количество начатых работ",
		}),
		WorkCompletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deal_work_completed_total",
			Help: "Общее количество завершенных работ",
		}),
		ReviewsReceivedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deal_reviews_received_total",
			Help: "Общее количество полученных отзывов",
		}),
		RejectedMutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "deal_rejected_mutations_total",
			Help: "Количество отклоненных мутаций по коду ошибки",
		}, []string{"code"}),
	}
}

// HandleDealEvent реализует подписчика шины событий: каждый успешный
// переход инкрементирует свой счетчик.
func (m *DealMetrics) HandleDealEvent(eventType string, deal *models.DealRequest) {
	switch eventType {
	case models.EventNewRequest:
		m.DealsCreatedTotal.Inc()
	case models.EventRequestAccepted:
		m.DealsAcceptedTotal.Inc()
	case models.EventRequestWaitlisted:
		m.DealsWaitlistedTotal.Inc()
	case models.EventRequestRejected:
		m.DealsRejectedTotal.Inc()
	case models.EventStatusUpdate:
		if deal.WorkStatus == nil {
			return
		}
		switch *deal.WorkStatus {
		case models.WorkStatusOngoing:
			m.WorkStartedTotal.Inc()
		case models.WorkStatusCompleted:
			m.WorkCompletedTotal.Inc()
		}
	case models.EventReviewReceived:
		m.ReviewsReceivedTotal.Inc()
	}
}

// RecordRejectedMutation записывает отклоненную мутацию.
func (m *DealMetrics) RecordRejectedMutation(code string) {
	m.RejectedMutationsTotal.WithLabelValues(code).Inc()
}
