package api

import "github.com/procsim/procsim/sim"

// StatusResponse represents the response for GET /status.
type StatusResponse struct {
	Tick       int    `json:"tick"`
	RunningPID int    `json:"running_pid"`
	APIVersion string `json:"api_version"`
}

// ProcessResponse represents a single process in responses.
type ProcessResponse struct {
	PID              int    `json:"pid"`
	Name             string `json:"name"`
	State            string `json:"state"`
	TotalCPUTime     int    `json:"total_cpu_time"`
	RemainingCPUTime int    `json:"remaining_cpu_time"`
	IORemaining      int    `json:"io_remaining"`
	ParentPID        int    `json:"parent_pid,omitempty"`
	Children         []int  `json:"children"`
	BlockedCount     int    `json:"blocked_count"`
	PreemptCount     int    `json:"preempt_count"`
	CreationTick     int    `json:"creation_tick"`
	TerminationTick  int    `json:"termination_tick"`
	Reaped           bool   `json:"reaped"`
}

// ProcessListResponse represents the response for GET /processes.
type ProcessListResponse struct {
	Processes []ProcessResponse `json:"processes"`
}

// MetricsResponse represents the response for GET /metrics.
type MetricsResponse struct {
	CurrentTick         int     `json:"current_tick"`
	TotalProcesses      int     `json:"total_processes"`
	CPUUtilization      float64 `json:"cpu_utilization"`
	CPUBusyTicks        int     `json:"cpu_busy_ticks"`
	IdleTicks           int     `json:"idle_ticks"`
	ContextSwitches     int     `json:"context_switches"`
	ActiveZombies       int     `json:"active_zombies"`
	TerminatedProcesses int     `json:"terminated_processes"`
	AverageTurnaround   float64 `json:"average_turnaround"`
	AverageWaiting      float64 `json:"average_waiting"`
}

// TreeResponse represents the parent→children adjacency for GET /tree.
type TreeResponse struct {
	Roots    []int         `json:"roots"`
	Children map[int][]int `json:"children"`
}

// EventsResponse represents the response for GET /events.
type EventsResponse struct {
	Events []string `json:"events"`
}

// CreatedResponse is returned by the create endpoints.
type CreatedResponse struct {
	PID int `json:"pid"`
}

// SuccessResponse is returned by action endpoints with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// TickResponse is returned by POST /tick.
type TickResponse struct {
	Tick  int `json:"tick"`
	Ticks int `json:"ticks_advanced"`
}

// ErrorResponse carries a machine-readable error kind and a message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ToProcessResponse converts a core process view into its API shape.
func ToProcessResponse(p sim.Process) ProcessResponse {
	children := make([]int, len(p.Children))
	for i, c := range p.Children {
		children[i] = int(c)
	}
	return ProcessResponse{
		PID:              int(p.PID),
		Name:             p.Name,
		State:            string(p.State),
		TotalCPUTime:     p.TotalCPUTime,
		RemainingCPUTime: p.RemainingCPUTime,
		IORemaining:      p.IORemaining,
		ParentPID:        int(p.ParentPID),
		Children:         children,
		BlockedCount:     p.BlockedCount,
		PreemptCount:     p.PreemptCount,
		CreationTick:     p.CreationTick,
		TerminationTick:  p.TerminationTick,
		Reaped:           p.Reaped,
	}
}

// ToMetricsResponse converts a metrics snapshot into its API shape.
func ToMetricsResponse(m sim.Snapshot) MetricsResponse {
	return MetricsResponse{
		CurrentTick:         m.CurrentTick,
		TotalProcesses:      m.TotalProcesses,
		CPUUtilization:      m.CPUUtilization,
		CPUBusyTicks:        m.CPUBusyTicks,
		IdleTicks:           m.IdleTicks,
		ContextSwitches:     m.ContextSwitches,
		ActiveZombies:       m.ActiveZombies,
		TerminatedProcesses: m.TerminatedProcesses,
		AverageTurnaround:   m.AverageTurnaround,
		AverageWaiting:      m.AverageWaiting,
	}
}
