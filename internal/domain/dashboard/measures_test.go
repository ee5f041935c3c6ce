package dashboard

import (
	"strings"
	"testing"
)

func TestPredefinedMeasures(t *testing.T) {
	expectedIDs := []string{
		MeasureTodayPatients,
		MeasureTodayBills,
		MeasureTodayRevenue,
		MeasureTotalPatients,
		MeasureTotalDoctors,
		MeasureUnpaidBills,
	}
	if len(PredefinedMeasures) != len(expectedIDs) {
		t.Fatalf("expected %d predefined measures, got %d", len(expectedIDs), len(PredefinedMeasures))
	}
	for i, expectedID := range expectedIDs {
		if PredefinedMeasures[i].ID != expectedID {
			t.Errorf("expected measure[%d].ID = %s, got %s", i, expectedID, PredefinedMeasures[i].ID)
		}
	}
}

func TestPredefinedMeasures_DailyUseDayBounds(t *testing.T) {
	for _, m := range PredefinedMeasures {
		if m.SQL == "" || m.Name == "" {
			t.Errorf("measure %s is incomplete", m.ID)
		}
		usesBounds := strings.Contains(m.SQL, "$1") && strings.Contains(m.SQL, "$2")
		if m.Daily != usesBounds {
			t.Errorf("measure %s: daily=%v but SQL bounds=%v", m.ID, m.Daily, usesBounds)
		}
	}
}

func TestFindMeasure(t *testing.T) {
	m := FindMeasure(MeasureTodayRevenue)
	if m == nil {
		t.Fatal("expected to find today-revenue measure")
	}
	if !strings.Contains(m.SQL, "status = 'paid'") {
		t.Errorf("revenue must only count paid bills: %s", m.SQL)
	}
	if FindMeasure("nonexistent") != nil {
		t.Error("expected nil for nonexistent measure")
	}
}
