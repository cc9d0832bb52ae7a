// Package report runs fetch-then-aggregate cycles: each call reads the records a view
// needs from the expense facade and hands them to the stats package.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

// sharedFetchTimeout bounds a deduplicated read, which no longer inherits a caller deadline.
const sharedFetchTimeout = 30 * time.Second

//go:generate mockgen -source=service.go -destination=source_mock.go -package=report
type Source interface {
	MonthRecords(ctx context.Context, owner uuid.UUID, m expense.Month) ([]*expense.Expense, error)
	YearRecords(ctx context.Context, owner uuid.UUID, year int) ([]*expense.Expense, error)
	Between(ctx context.Context, owner uuid.UUID, from, through string) ([]*expense.Expense, error)
}

// Service computes report views. Identical concurrent reads share one store round trip;
// nothing is kept once the call returns, so a read issued after a write sees it.
type Service struct {
	src   Source
	group singleflight.Group
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// fetch runs fn once per key among concurrent callers. The shared call is detached
// from any single caller's cancellation; each caller stops waiting when its own ctx ends.
func fetch[T any](ctx context.Context, s *Service, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ch := s.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}

		return res.Val.(T), nil
	}
}

// yearToDate reads Jan 1 of now's year through now's calendar day.
func yearToDate(ctx context.Context, src Source, owner uuid.UUID, now time.Time) ([]*expense.Expense, error) {
	return src.Between(ctx, owner, fmt.Sprintf("%04d-01-01", now.Year()), expense.FormatDate(now))
}

// Dashboard totals the owner's year to date as seen on now's calendar day.
func (s *Service) Dashboard(ctx context.Context, owner uuid.UUID, now time.Time) (stats.DashboardStats, error) {
	key := "dashboard:" + owner.String() + ":" + expense.FormatDate(now)

	return fetch(ctx, s, key, func(ctx context.Context) (stats.DashboardStats, error) {
		records, err := yearToDate(ctx, s.src, owner, now)
		if err != nil {
			return stats.DashboardStats{}, fmt.Errorf("fetch dashboard records: %w", err)
		}

		return stats.Dashboard(records, now), nil
	})
}

// Activity returns the dense seven-day series ending on now. It reads its own window so
// the first days of a month still show the end of the previous one.
func (s *Service) Activity(ctx context.Context, owner uuid.UUID, now time.Time) ([]stats.DayActivity, error) {
	from := expense.FormatDate(now.AddDate(0, 0, -6))
	today := expense.FormatDate(now)
	key := "activity:" + owner.String() + ":" + today

	return fetch(ctx, s, key, func(ctx context.Context) ([]stats.DayActivity, error) {
		records, err := s.src.Between(ctx, owner, from, today)
		if err != nil {
			return nil, fmt.Errorf("fetch activity records: %w", err)
		}

		return stats.Last7Days(stats.DailyTotals(records), now), nil
	})
}

// Categories breaks month down by category.
func (s *Service) Categories(ctx context.Context, owner uuid.UUID, month expense.Month) ([]stats.CategoryShare, error) {
	key := "categories:" + owner.String() + ":" + month.String()

	return fetch(ctx, s, key, func(ctx context.Context) ([]stats.CategoryShare, error) {
		records, err := s.src.MonthRecords(ctx, owner, month)
		if err != nil {
			return nil, fmt.Errorf("fetch month records: %w", err)
		}

		return stats.Categories(records), nil
	})
}

// Regret reviews month's regretted purchases.
func (s *Service) Regret(ctx context.Context, owner uuid.UUID, month expense.Month) (stats.RegretStats, error) {
	key := "regret:" + owner.String() + ":" + month.String()

	return fetch(ctx, s, key, func(ctx context.Context) (stats.RegretStats, error) {
		records, err := s.src.MonthRecords(ctx, owner, month)
		if err != nil {
			return stats.RegretStats{}, fmt.Errorf("fetch month records: %w", err)
		}

		return stats.Regret(records), nil
	})
}

// Wrapped summarises year.
func (s *Service) Wrapped(ctx context.Context, owner uuid.UUID, year int) (stats.WrappedStats, error) {
	key := fmt.Sprintf("wrapped:%s:%d", owner, year)

	return fetch(ctx, s, key, func(ctx context.Context) (stats.WrappedStats, error) {
		records, err := s.src.YearRecords(ctx, owner, year)
		if err != nil {
			return stats.WrappedStats{}, fmt.Errorf("fetch year records: %w", err)
		}

		return stats.Wrapped(records, year), nil
	})
}
