package main

import "testing"

func TestAnalyticsFlushOnStop(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)
	a.Track(EvtSessionStart, 0, "s1", "")
	a.Track(EvtSessionEnd, 3, "s1", endPilotLeft)
	a.Track(EvtRunRecorded, 3, "s1", "")
	a.Track(EvtRunRecorded, 4, "s2", "")
	a.Stop()
	a.Stop()

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtSessionStart] != 1 || counts[EvtRunRecorded] != 2 {
		t.Errorf("unexpected counts %v", counts)
	}
	active, err := a.ActivePilots(1)
	if err != nil {
		t.Fatal(err)
	}
	if active != 2 {
		t.Errorf("expected 2 active pilots, got %d", active)
	}
}

func TestNilAnalytics(t *testing.T) {
	var a *Analytics
	a.Track(EvtRegister, 1, "", "")
	a.Stop()
	counts, err := a.EventCounts(7)
	if err != nil || len(counts) != 0 {
		t.Errorf("nil analytics should report nothing, got %v %v", counts, err)
	}
}
