package timeseries

import (
	"testing"
	"time"
)

func TestTimeSeries_AppendEnforcesOrdering(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := New("vm-1", "network_out_total", "bytes")

	if err := ts.Append(start, 100); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := ts.Append(start.Add(time.Hour), 200); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Gaps are fine; regressions and duplicates are not
	if err := ts.Append(start.Add(48*time.Hour), 300); err != nil {
		t.Errorf("Append() rejected a gapped sample: %v", err)
	}
	if err := ts.Append(start.Add(48*time.Hour), 400); err == nil {
		t.Error("Append() accepted a duplicate timestamp")
	}
	if err := ts.Append(start.Add(time.Minute), 500); err == nil {
		t.Error("Append() accepted an out-of-order timestamp")
	}

	if ts.Len() != 3 {
		t.Errorf("Len() = %d after rejected appends, want 3", ts.Len())
	}
}

func TestTimeSeries_Validate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	good := New("vm-1", "network_out_total", "bytes")
	for i := 0; i < 3; i++ {
		if err := good.Append(start.Add(time.Duration(i)*time.Hour), float64(i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v for a well-formed series", err)
	}

	bad := &TimeSeries{
		ResourceID: "vm-1",
		MetricKey:  "network_out_total",
		Samples: []MetricSample{
			{Timestamp: start.Add(time.Hour), Value: 1},
			{Timestamp: start, Value: 2},
		},
	}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted out-of-order samples")
	}
}

func TestTimeSeries_Aggregates(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := New("vm-1", "network_out_total", "bytes")
	for i, v := range []float64{10, 20, 30} {
		if err := ts.Append(start.Add(time.Duration(i)*24*time.Hour), v); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if got := ts.Total(); got != 60 {
		t.Errorf("Total() = %v, want 60", got)
	}
	if got := ts.Span(); got != 48*time.Hour {
		t.Errorf("Span() = %v, want 48h", got)
	}
	if !ts.Start().Equal(start) || !ts.End().Equal(start.Add(48*time.Hour)) {
		t.Errorf("Start()/End() = %v/%v", ts.Start(), ts.End())
	}
	if got := ts.Key().String(); got != "vm-1/network_out_total" {
		t.Errorf("Key().String() = %q", got)
	}
}

func TestMetricsForResourceType(t *testing.T) {
	defs := MetricsForResourceType(ResourceTypeVM)
	if len(defs) == 0 {
		t.Fatal("MetricsForResourceType() returned nothing for virtual machines")
	}
	for _, def := range defs {
		if !IsEgressMetric(def.Key) {
			t.Errorf("registry lists %q for virtual machines but does not classify it as egress", def.Key)
		}
	}

	if defs := MetricsForResourceType("toaster"); len(defs) != 0 {
		t.Errorf("MetricsForResourceType() returned %v for an unknown resource type", defs)
	}
}
