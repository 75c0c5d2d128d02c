package service

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// DefaultEarningsEstimate используется, когда из бюджета сделки не удалось
// извлечь ни одного числа. Это именно оценка, а не сумма расчёта.
const DefaultEarningsEstimate = 1500

var budgetNumberRe = regexp.MustCompile(`\d+`)

// DealListerForAnalytics описывает минимальный контракт аналитики к хранилищу сделок.
type DealListerForAnalytics interface {
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.DealRequest, error)
}

// WorkerStats агрегированные метрики исполнителя, вычисленные по всей
// истории его сделок.
type WorkerStats struct {
	TotalRequests      int      `json:"total_requests"`
	AcceptedRequests   int      `json:"accepted_requests"`
	CompletedWorks     int      `json:"completed_works"`
	WaitlistedRequests int      `json:"waitlisted_requests"`
	RejectedRequests   int      `json:"rejected_requests"`
	AcceptanceRate     int      `json:"acceptance_rate"`
	CompletionRate     int      `json:"completion_rate"`
	EarningsToday      int      `json:"earnings_today"`
	Earnings7d         int      `json:"earnings_7d"`
	Earnings30d        int      `json:"earnings_30d"`
	EarningsLifetime   int      `json:"earnings_lifetime"`
	Insights           []string `json:"insights"`
}

// AnalyticsService вычисляет метрики исполнителя по запросу.
// Состояния у сервиса нет: это чистая функция от истории сделок.
type AnalyticsService struct {
	deals DealListerForAnalytics
}

// NewAnalyticsService создаёт новый сервис аналитики.
func NewAnalyticsService(deals DealListerForAnalytics) *AnalyticsService {
	return &AnalyticsService{deals: deals}
}

// WorkerStats возвращает метрики исполнителя на текущий момент.
func (s *AnalyticsService) WorkerStats(ctx context.Context, workerID uuid.UUID) (*WorkerStats, error) {
	deals, err := s.deals.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	stats := ComputeWorkerStats(deals, time.Now())
	return &stats, nil
}

// ComputeWorkerStats вычисляет метрики по истории сделок. Детерминированна:
// одинаковая история и момент времени дают одинаковый результат.
func ComputeWorkerStats(deals []models.DealRequest, now time.Time) WorkerStats {
	var stats WorkerStats
	stats.TotalRequests = len(deals)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	for _, deal := range deals {
		switch deal.Status {
		case models.DealStatusAccepted:
			stats.AcceptedRequests++
		case models.DealStatusWaitlisted:
			stats.WaitlistedRequests++
		case models.DealStatusRejected:
			stats.RejectedRequests++
		}

		if deal.WorkStatus == nil || *deal.WorkStatus != models.WorkStatusCompleted || deal.CompletedAt == nil {
			continue
		}

		stats.CompletedWorks++

		estimate := EstimateEarnings(deal.Budget)
		completedAt := *deal.CompletedAt

		stats.EarningsLifetime += estimate
		if !completedAt.Before(startOfDay) {
			stats.EarningsToday += estimate
		}
		if !completedAt.Before(weekAgo) {
			stats.Earnings7d += estimate
		}
		if !completedAt.Before(monthAgo) {
			stats.Earnings30d += estimate
		}
	}

	stats.AcceptanceRate = roundedPercent(stats.AcceptedRequests, stats.TotalRequests)
	stats.CompletionRate = roundedPercent(stats.CompletedWorks, stats.AcceptedRequests)
	stats.Insights = buildInsights(stats)

	return stats
}

// EstimateEarnings оценивает заработок по свободному тексту бюджета.
// Одно число трактуется как точная сумма, два и более — как диапазон
// (берётся среднее первых двух). Без чисел возвращается дефолтная оценка.
func EstimateEarnings(budget *string) int {
	if budget == nil {
		return DefaultEarningsEstimate
	}

	numbers := budgetNumberRe.FindAllString(*budget, -1)
	if len(numbers) == 0 {
		return DefaultEarningsEstimate
	}

	first, err := strconv.Atoi(numbers[0])
	if err != nil {
		return DefaultEarningsEstimate
	}

	if len(numbers) == 1 {
		return first
	}

	second, err := strconv.Atoi(numbers[1])
	if err != nil {
		return first
	}

	return (first + second) / 2
}

// roundedPercent возвращает долю в целых процентах с округлением.
func roundedPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// buildInsights строит подсказки по порогам метрик. Список воспроизводим:
// никакой случайности, только значения метрик.
func buildInsights(stats WorkerStats) []string {
	insights := make([]string, 0, 4)

	if stats.CompletedWorks == 0 {
		insights = append(insights, "Завершите первую работу, чтобы начать зарабатывать рейтинг")
	}
	if stats.TotalRequests >= 5 && stats.AcceptanceRate >= 80 {
		insights = append(insights, "Отличный показатель принятия запросов — заказчики это ценят")
	}
	if stats.AcceptedRequests >= 5 && stats.CompletionRate >= 90 {
		insights = append(insights, "Вы доводите почти все принятые работы до конца")
	}
	if stats.TotalRequests >= 5 && stats.RejectedRequests > stats.AcceptedRequests {
		insights = append(insights, "Вы отклоняете больше запросов, чем принимаете — это снижает поток заказов")
	}

	return insights
}
