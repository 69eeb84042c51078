package core

import "testing"

func TestMetricsRollingAverage(t *testing.T) {
	if err := MetricsInitialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	// Ten frames of 16ms complete one averaging window.
	for i := 0; i < int(AVG_COUNT); i++ {
		MetricsUpdate(0.016)
	}
	if got := MetricsFrameTime(); got < 15.9 || got > 16.1 {
		t.Errorf("expected ~16ms average, got %f", got)
	}
	if len(MetricsHistory()) != 1 {
		t.Errorf("expected 1 history sample, got %d", len(MetricsHistory()))
	}

	// A second window at 32ms replaces the rolling average and appends history.
	for i := 0; i < int(AVG_COUNT); i++ {
		MetricsUpdate(0.032)
	}
	if got := MetricsFrameTime(); got < 31.9 || got > 32.1 {
		t.Errorf("expected ~32ms average, got %f", got)
	}
	history := MetricsHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 history samples, got %d", len(history))
	}
	if history[0] > history[1] {
		t.Errorf("expected history oldest first, got %v", history)
	}
}

func TestMetricsHistoryBounded(t *testing.T) {
	MetricsInitialize()

	// Enough windows to overflow the history ring.
	for w := 0; w < HISTORY_COUNT+20; w++ {
		for i := 0; i < int(AVG_COUNT); i++ {
			MetricsUpdate(0.010)
		}
	}
	if got := len(MetricsHistory()); got != HISTORY_COUNT {
		t.Errorf("expected history capped at %d, got %d", HISTORY_COUNT, got)
	}
}

func TestMetricsFPSAccumulation(t *testing.T) {
	MetricsInitialize()

	// 100 frames at 16ms cross the one second mark, locking in an fps value.
	for i := 0; i < 100; i++ {
		MetricsUpdate(0.016)
	}
	if fps := MetricsFPS(); fps <= 0 {
		t.Errorf("expected a positive fps after >1s of frames, got %f", fps)
	}
}
