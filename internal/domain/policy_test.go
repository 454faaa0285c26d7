package domain

import (
	"testing"
	"time"
)

func TestImportAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		imp     string
		allowed []string
		want    bool
	}{
		{name: "wildcard", imp: "java.net.Socket", allowed: []string{"*"}, want: true},
		{name: "package prefix", imp: "java.util.HashMap", allowed: []string{"java.util.*"}, want: true},
		{name: "nested under prefix", imp: "java.util.stream.Collectors", allowed: []string{"java.util.*"}, want: true},
		{name: "exact match", imp: "java.io.File", allowed: []string{"java.io.File"}, want: true},
		{name: "exact match miss", imp: "java.io.FileReader", allowed: []string{"java.io.File"}, want: false},
		{name: "prefix does not match sibling package", imp: "java.utilx.Thing", allowed: []string{"java.util.*"}, want: false},
		{name: "empty list", imp: "java.util.HashMap", allowed: nil, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ImportAllowed(tt.imp, tt.allowed); got != tt.want {
				t.Errorf("ImportAllowed(%q, %v) = %v, want %v", tt.imp, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestParseSubmitPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseSubmitPolicy(`{"expire_time":"2024-06-10T23:59:59","allowed_imports":["java.util.*"],"late_allowed":["alice"],"late_until":"2024-06-12T23:59:59"}`)
	if err != nil {
		t.Fatalf("ParseSubmitPolicy() error = %v", err)
	}
	if !p.HasImportPolicy() {
		t.Error("HasImportPolicy() = false with a populated allow-list")
	}
	if !p.IsLateAllowed("alice") || p.IsLateAllowed("bob") {
		t.Error("late-allowed list misapplied")
	}
	at, err := p.ExpireAt(time.UTC)
	if err != nil {
		t.Fatalf("ExpireAt() error = %v", err)
	}
	if want := time.Date(2024, 6, 10, 23, 59, 59, 0, time.UTC); !at.Equal(want) {
		t.Errorf("ExpireAt() = %v, want %v", at, want)
	}

	if _, err := ParseSubmitPolicy("nonsense"); err == nil {
		t.Error("ParseSubmitPolicy() accepted a malformed blob")
	}
}

func TestHasImportPolicyDistinguishesEmptyFromMissing(t *testing.T) {
	t.Parallel()

	withEmpty, err := ParseSubmitPolicy(`{"allowed_imports":[]}`)
	if err != nil {
		t.Fatalf("ParseSubmitPolicy() error = %v", err)
	}
	if !withEmpty.HasImportPolicy() {
		t.Error("explicit empty allow-list must still count as a policy")
	}

	without, err := ParseSubmitPolicy(`{}`)
	if err != nil {
		t.Fatalf("ParseSubmitPolicy() error = %v", err)
	}
	if without.HasImportPolicy() {
		t.Error("absent allow-list must not count as a policy")
	}
}

func TestJudgeServerHealth(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	fresh := &JudgeServer{LastHeartbeat: now.Add(-5 * time.Second)}
	if !fresh.IsNormal(now) {
		t.Error("server with a 5s-old heartbeat must be healthy")
	}
	stale := &JudgeServer{LastHeartbeat: now.Add(-7 * time.Second)}
	if stale.IsNormal(now) {
		t.Error("server with a 7s-old heartbeat must be abnormal")
	}

	full := &JudgeServer{CPUCore: 2, TaskNumber: 5}
	if full.HasCapacity() {
		t.Error("task_number past 2*cpu_core must refuse new work")
	}
	edge := &JudgeServer{CPUCore: 2, TaskNumber: 4}
	if !edge.HasCapacity() {
		t.Error("task_number at 2*cpu_core still has one slot")
	}
}

func TestContestStatus(t *testing.T) {
	t.Parallel()

	contest := &Contest{
		StartTime:   time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC),
		CreatedByID: 1,
		AdminIDs:    []int64{2, 3},
	}

	if got := contest.Status(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)); got != ContestNotStart {
		t.Errorf("before start: %d, want ContestNotStart", got)
	}
	if got := contest.Status(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)); got != ContestUnderway {
		t.Errorf("mid contest: %d, want ContestUnderway", got)
	}
	if got := contest.Status(time.Date(2024, 6, 10, 16, 0, 0, 0, time.UTC)); got != ContestEnded {
		t.Errorf("after end: %d, want ContestEnded", got)
	}

	for _, id := range []int64{1, 2, 3} {
		if !contest.IsContestAdmin(id) {
			t.Errorf("user %d must be an admin", id)
		}
	}
	if contest.IsContestAdmin(42) {
		t.Error("user 42 must not be an admin")
	}
}
