package featureflags

import "testing"

const testUserID = "6f2c1f09-6f3e-4e38-9a5a-2f6f40c2a111"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", testUserID) || !m.Enabled("c", testUserID) || !m.Enabled("e", testUserID) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", testUserID) || m.Enabled("d", testUserID) || m.Enabled("f", testUserID) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", testUserID) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", testUserID) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", testUserID)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", testUserID); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", "") {
		t.Fatal("percentage rollout requires a user ID")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot(testUserID)
	if len(snap) != 3 {
		t.Fatalf("expected snapshot size 3, got %d", len(snap))
	}
}
