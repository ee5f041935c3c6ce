package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/pktime"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Evaluate runs one measure for the PKT day containing day. A zero day means
// today.
func (s *Service) Evaluate(ctx context.Context, id string, day time.Time) (*Result, error) {
	m := FindMeasure(id)
	if m == nil {
		return nil, apperr.NotFound("measure")
	}
	now := s.now()
	if day.IsZero() {
		day = now
	}
	start, end := pktime.DayRange(day)
	v, err := s.store.Value(ctx, m, start, end)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", m.ID, err)
	}
	r := &Result{MeasureID: m.ID, MeasureName: m.Name, Value: v, GeneratedAt: now}
	if m.Daily {
		r.Day = pktime.FormatDate(start)
	}
	return r, nil
}

// Overview evaluates every measure for the PKT day containing day and lists
// the patients registered on it.
func (s *Service) Overview(ctx context.Context, day time.Time) (*Overview, error) {
	if day.IsZero() {
		day = s.now()
	}
	start, end := pktime.DayRange(day)

	values := make(map[string]float64, len(PredefinedMeasures))
	for i := range PredefinedMeasures {
		m := &PredefinedMeasures[i]
		v, err := s.store.Value(ctx, m, start, end)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", m.ID, err)
		}
		values[m.ID] = v
	}

	patients, err := s.store.PatientsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		p.Time = pktime.FormatTime(p.CreatedAt)
	}

	return &Overview{
		Date:          pktime.FormatLongDate(start),
		TodayPatients: int(values[MeasureTodayPatients]),
		TodayBills:    int(values[MeasureTodayBills]),
		TodayRevenue:  values[MeasureTodayRevenue],
		TotalPatients: int(values[MeasureTotalPatients]),
		TotalDoctors:  int(values[MeasureTotalDoctors]),
		UnpaidBills:   int(values[MeasureUnpaidBills]),
		Patients:      patients,
	}, nil
}
