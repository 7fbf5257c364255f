package handler

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iliyamo/greenhouse/internal/metrics"
	"github.com/iliyamo/greenhouse/internal/model"
)

func TestPersistToggleCountsOnlySuccessfulWrites(t *testing.T) {
	counter := metrics.CareStepCompletions.WithLabelValues("mark", string(model.CareStepWatering))
	before := testutil.ToFloat64(counter)

	wantErr := errors.New("db down")
	err := persistToggle(model.CareStepWatering, true, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("persistToggle err = %v, want %v", err, wantErr)
	}
	if got := testutil.ToFloat64(counter); got != before {
		t.Errorf("failed write moved the counter: %v -> %v", before, got)
	}

	if err := persistToggle(model.CareStepWatering, true, func() error { return nil }); err != nil {
		t.Fatalf("persistToggle err = %v", err)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("successful write counted %v times, want 1", got-before)
	}
}

func TestPersistToggleDirectionLabels(t *testing.T) {
	unmark := metrics.CareStepCompletions.WithLabelValues("unmark", string(model.CareStepMisting))
	before := testutil.ToFloat64(unmark)

	if err := persistToggle(model.CareStepMisting, false, func() error { return nil }); err != nil {
		t.Fatalf("persistToggle err = %v", err)
	}
	if got := testutil.ToFloat64(unmark); got != before+1 {
		t.Errorf("unmark counter = %v, want %v", got, before+1)
	}
}
