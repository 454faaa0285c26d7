package domain

import "time"

// heartbeats older than this mark a server abnormal
const judgeServerHeartbeatWindow = 6 * time.Second

// JudgeServer represents one remote execution worker. TaskNumber must only be
// mutated through the admission controller; a lost decrement leaks capacity
// permanently.
type JudgeServer struct {
	ID            int64     `db:"id"`
	Hostname      string    `db:"hostname"`
	ServiceURL    string    `db:"service_url"`
	CPUCore       int       `db:"cpu_core"`
	TaskNumber    int       `db:"task_number"`
	IsDisabled    bool      `db:"is_disabled"`
	LastHeartbeat time.Time `db:"last_heartbeat"`
}

// IsNormal reports whether the server heartbeated recently enough to be
// considered healthy.
func (s *JudgeServer) IsNormal(now time.Time) bool {
	return now.Sub(s.LastHeartbeat) <= judgeServerHeartbeatWindow
}

// HasCapacity reports whether the server may take one more task. Each core is
// allowed to queue one extra task on the worker side.
func (s *JudgeServer) HasCapacity() bool {
	return s.TaskNumber <= s.CPUCore*2
}

type JudgeServerTable struct {
	ID            string
	Hostname      string
	ServiceURL    string
	CPUCore       string
	TaskNumber    string
	IsDisabled    string
	LastHeartbeat string
}

func (JudgeServerTable) Name() string {
	return "judge_servers"
}

func GetJudgeServerTable() JudgeServerTable {
	return JudgeServerTable{
		ID:            "id",
		Hostname:      "hostname",
		ServiceURL:    "service_url",
		CPUCore:       "cpu_core",
		TaskNumber:    "task_number",
		IsDisabled:    "is_disabled",
		LastHeartbeat: "last_heartbeat",
	}
}
