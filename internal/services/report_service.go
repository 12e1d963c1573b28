package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/models"
)

const summaryCacheKey = "carecoord:dashboard:summary"

// ReportService builds the admin dashboard summary. Summaries are cached
// in Redis when a client is configured; without one every call hits the
// database.
type ReportService interface {
	Summary(ctx context.Context) (models.DashboardSummary, error)
	Refresh(ctx context.Context) (models.DashboardSummary, error)
	Invalidate(ctx context.Context)
}

type reportService struct {
	db           *gorm.DB
	redis        *redis.Client
	ttl          time.Duration
	appointments AppointmentService
}

func NewReportService(db *gorm.DB, redisClient *redis.Client, ttl time.Duration) ReportService {
	return &reportService{
		db:           db,
		redis:        redisClient,
		ttl:          ttl,
		appointments: NewAppointmentService(db, nil),
	}
}

// Summary returns the cached summary, computing it on a miss
func (s *reportService) Summary(ctx context.Context) (models.DashboardSummary, error) {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, summaryCacheKey).Bytes()
		switch {
		case err == nil:
			var summary models.DashboardSummary
			if err := json.Unmarshal(data, &summary); err == nil {
				return summary, nil
			}
		case err != redis.Nil:
			slog.Warn("summary cache read failed", "error", err)
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the summary and stores it in the cache
func (s *reportService) Refresh(ctx context.Context) (models.DashboardSummary, error) {
	summary, err := s.compute(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	if s.redis != nil {
		data, err := json.Marshal(summary)
		if err == nil {
			err = s.redis.Set(ctx, summaryCacheKey, data, s.ttl).Err()
		}
		if err != nil {
			slog.Warn("summary cache write failed", "error", err)
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary after a mutation
func (s *reportService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryCacheKey).Err(); err != nil {
		slog.Warn("summary cache invalidation failed", "error", err)
	}
}

func (s *reportService) compute(ctx context.Context) (models.DashboardSummary, error) {
	db := s.db.WithContext(ctx)
	summary := models.DashboardSummary{GeneratedAt: time.Now().Unix()}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &summary.Users},
		{&models.FamilyMember{}, &summary.FamilyMembers},
		{&models.Pet{}, &summary.Pets},
		{&models.ElderlyPerson{}, &summary.ElderlyPersons},
		{&models.Appointment{}, &summary.Appointments},
		{&models.Payment{}, &summary.Payments},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return models.DashboardSummary{}, err
		}
	}

	var revenue struct{ Total float64 }
	if err := db.Model(&models.Payment{}).Select("coalesce(sum(amount), 0) as total").Scan(&revenue).Error; err != nil {
		return models.DashboardSummary{}, err
	}
	summary.Revenue = revenue.Total

	usage, err := s.appointments.CountByService()
	if err != nil {
		return models.DashboardSummary{}, err
	}
	summary.ServiceUsage = usage
	return summary, nil
}
