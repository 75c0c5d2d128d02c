package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

func TestEstimateEarnings(t *testing.T) {
	tests := []struct {
		name   string
		budget *string
		want   int
	}{
		{"nil бюджет", nil, DefaultEarningsEstimate},
		{"пустая строка", strPtr(""), DefaultEarningsEstimate},
		{"текст без чисел", strPtr("договорная"), DefaultEarningsEstimate},
		{"одно число", strPtr("₹1800"), 1800},
		{"диапазон", strPtr("₹2000 - ₹3000"), 2500},
		{"диапазон с лишними числами", strPtr("от 1000 до 2000, аванс 500"), 1500},
		{"число в тексте", strPtr("примерно 750 за час"), 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateEarnings(tt.budget))
		})
	}
}

func strPtr(s string) *string { return &s }

func completedAt(t time.Time) *time.Time { return &t }

func completedDealAt(budget string, at time.Time) models.DealRequest {
	ws := models.WorkStatusCompleted
	return models.DealRequest{
		Status:      models.DealStatusAccepted,
		WorkStatus:  &ws,
		Budget:      strPtr(budget),
		CompletedAt: completedAt(at),
	}
}

func TestComputeWorkerStats_Counters(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	deals := []models.DealRequest{
		{Status: models.DealStatusNew},
		{Status: models.DealStatusWaitlisted},
		{Status: models.DealStatusRejected},
		completedDealAt("1000", now.Add(-time.Hour)),
	}

	stats := ComputeWorkerStats(deals, now)

	assert.Equal(t, 4, stats.TotalRequests)
	assert.Equal(t, 1, stats.AcceptedRequests)
	assert.Equal(t, 1, stats.CompletedWorks)
	assert.Equal(t, 1, stats.WaitlistedRequests)
	assert.Equal(t, 1, stats.RejectedRequests)
	assert.Equal(t, 25, stats.AcceptanceRate)
	assert.Equal(t, 100, stats.CompletionRate)
}

func TestComputeWorkerStats_EarningsWindows(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	deals := []models.DealRequest{
		// Сегодня утром: попадает во все окна.
		completedDealAt("1000", time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)),
		// Три дня назад: всё, кроме сегодняшнего окна.
		completedDealAt("2000", now.AddDate(0, 0, -3)),
		// Двадцать дней назад: только месяц и lifetime.
		completedDealAt("4000", now.AddDate(0, 0, -20)),
		// Год назад: только lifetime.
		completedDealAt("8000", now.AddDate(-1, 0, 0)),
	}

	stats := ComputeWorkerStats(deals, now)

	assert.Equal(t, 1000, stats.EarningsToday)
	assert.Equal(t, 3000, stats.Earnings7d)
	assert.Equal(t, 7000, stats.Earnings30d)
	assert.Equal(t, 15000, stats.EarningsLifetime)
}

func TestComputeWorkerStats_IncompleteWorkDoesNotEarn(t *testing.T) {
	now := time.Now()
	ws := models.WorkStatusOngoing

	deals := []models.DealRequest{
		{Status: models.DealStatusAccepted, WorkStatus: &ws, Budget: strPtr("5000")},
	}

	stats := ComputeWorkerStats(deals, now)
	assert.Equal(t, 0, stats.CompletedWorks)
	assert.Equal(t, 0, stats.EarningsLifetime)
}

func TestComputeWorkerStats_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	deals := []models.DealRequest{
		completedDealAt("1500", now.Add(-2*time.Hour)),
		{Status: models.DealStatusRejected},
	}

	first := ComputeWorkerStats(deals, now)
	second := ComputeWorkerStats(deals, now)
	assert.Equal(t, first, second)
}

func TestBuildInsights_Thresholds(t *testing.T) {
	// Нет завершённых работ.
	stats := ComputeWorkerStats([]models.DealRequest{{Status: models.DealStatusNew}}, time.Now())
	assert.Contains(t, stats.Insights, "Завершите первую работу, чтобы начать зарабатывать рейтинг")

	// Высокий показатель принятия при достаточной выборке.
	now := time.Now()
	var deals []models.DealRequest
	for i := 0; i < 5; i++ {
		deals = append(deals, completedDealAt("1000", now.Add(-time.Hour)))
	}
	stats = ComputeWorkerStats(deals, now)
	assert.Contains(t, stats.Insights, "Отличный показатель принятия запросов — заказчики это ценят")
	assert.Contains(t, stats.Insights, "Вы доводите почти все принятые работы до конца")

	// Отклонений больше, чем принятий.
	deals = nil
	for i := 0; i < 4; i++ {
		deals = append(deals, models.DealRequest{Status: models.DealStatusRejected})
	}
	deals = append(deals, completedDealAt("1000", now))
	stats = ComputeWorkerStats(deals, now)
	assert.Contains(t, stats.Insights, "Вы отклоняете больше запросов, чем принимаете — это снижает поток заказов")
}
