package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/procsim/procsim/sim"
)

// Handlers contains all HTTP handlers. The core assumes single-writer
// access, so every handler serializes through one mutex.
type Handlers struct {
	mu  sync.Mutex
	sim *sim.Simulator
}

// NewHandlers creates HTTP handlers around a simulator instance.
func NewHandlers(s *sim.Simulator) *Handlers {
	return &Handlers{sim: s}
}

// createRequest is the body for the process/child create endpoints.
type createRequest struct {
	Name         string `json:"name"`
	TotalCPUTime int    `json:"total_cpu_time"`
}

// reapRequest is the body for POST /processes/{pid}/reap.
type reapRequest struct {
	ChildPID int `json:"child_pid"`
}

// tickRequest is the body for POST /tick.
type tickRequest struct {
	Count int `json:"count"`
}

// GetStatus handles GET /api/v1/status.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Tick:       h.sim.Clock(),
		RunningPID: int(h.sim.Running()),
		APIVersion: "v1",
	})
}

// GetMetrics handles GET /api/v1/metrics.
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, ToMetricsResponse(h.sim.Snapshot()))
}

// GetEvents handles GET /api/v1/events.
func (h *Handlers) GetEvents(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, EventsResponse{Events: h.sim.Events()})
}

// GetTree handles GET /api/v1/tree.
func (h *Handlers) GetTree(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roots, children := h.sim.Tree()
	resp := TreeResponse{
		Roots:    make([]int, len(roots)),
		Children: make(map[int][]int, len(children)),
	}
	for i, pid := range roots {
		resp.Roots[i] = int(pid)
	}
	for pid, kids := range children {
		ints := make([]int, len(kids))
		for i, c := range kids {
			ints[i] = int(c)
		}
		resp.Children[int(pid)] = ints
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProcesses handles GET /api/v1/processes.
func (h *Handlers) GetProcesses(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	procs := h.sim.Processes()
	resp := ProcessListResponse{Processes: make([]ProcessResponse, len(procs))}
	for i, p := range procs {
		resp.Processes[i] = ToProcessResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProcess handles GET /api/v1/processes/{pid}.
func (h *Handlers) GetProcess(w http.ResponseWriter, r *http.Request) {
	pid, ok := pidParam(w, r)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.sim.Process(pid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToProcessResponse(p))
}

// CreateProcess handles POST /api/v1/processes.
func (h *Handlers) CreateProcess(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	pid, err := h.sim.CreateProcess(req.Name, req.TotalCPUTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{PID: int(pid)})
}

// CreateChild handles POST /api/v1/processes/{pid}/child.
func (h *Handlers) CreateChild(w http.ResponseWriter, r *http.Request) {
	parent, ok := pidParam(w, r)
	if !ok {
		return
	}
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	pid, err := h.sim.CreateChild(parent, req.Name, req.TotalCPUTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{PID: int(pid)})
}

// PromoteProcess handles POST /api/v1/processes/{pid}/promote.
func (h *Handlers) PromoteProcess(w http.ResponseWriter, r *http.Request) {
	h.simpleAction(w, r, h.sim.Promote)
}

// BlockProcess handles POST /api/v1/processes/{pid}/block.
func (h *Handlers) BlockProcess(w http.ResponseWriter, r *http.Request) {
	h.simpleAction(w, r, h.sim.ForceBlock)
}

// TerminateProcess handles POST /api/v1/processes/{pid}/terminate.
func (h *Handlers) TerminateProcess(w http.ResponseWriter, r *http.Request) {
	h.simpleAction(w, r, h.sim.ForceTerminate)
}

// ReapChild handles POST /api/v1/processes/{pid}/reap, {pid} being the parent.
func (h *Handlers) ReapChild(w http.ResponseWriter, r *http.Request) {
	parent, ok := pidParam(w, r)
	if !ok {
		return
	}
	var req reapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sim.Reap(parent, sim.PID(req.ChildPID)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Tick handles POST /api/v1/tick, advancing one tick by default or the
// count given in the body.
func (h *Handlers) Tick(w http.ResponseWriter, r *http.Request) {
	req := tickRequest{Count: 1}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	if req.Count < 1 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "count must be at least 1",
		})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sim.RunTicks(req.Count); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TickResponse{Tick: h.sim.Clock(), Ticks: req.Count})
}

// Reset handles POST /api/v1/reset.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sim.Reset()
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *Handlers) simpleAction(w http.ResponseWriter, r *http.Request, action func(sim.PID) error) {
	pid, ok := pidParam(w, r)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := action(pid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func pidParam(w http.ResponseWriter, r *http.Request) (sim.PID, bool) {
	raw := chi.URLParam(r, "pid")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid pid " + strconv.Quote(raw),
		})
		return 0, false
	}
	return sim.PID(n), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body: " + err.Error(),
		})
		return false
	}
	return true
}

// writeError maps core sentinel errors onto HTTP statuses so callers can
// distinguish every failure kind.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, sim.ErrNoSuchProcess):
		status, kind = http.StatusNotFound, "no_such_process"
	case errors.Is(err, sim.ErrInvalidTransition):
		status, kind = http.StatusConflict, "invalid_transition"
	case errors.Is(err, sim.ErrNotAZombie):
		status, kind = http.StatusConflict, "not_a_zombie"
	case errors.Is(err, sim.ErrInvalidConfiguration):
		status, kind = http.StatusBadRequest, "invalid_configuration"
	}
	writeJSON(w, status, ErrorResponse{Error: kind, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
