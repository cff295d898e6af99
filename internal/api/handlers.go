package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/tutu-network/powergate/internal/domain"
	"github.com/tutu-network/powergate/internal/planner"
	"github.com/tutu-network/powergate/internal/safety"
	"github.com/tutu-network/powergate/internal/snapshot"
)

// SafetyResponse is returned by POST /api/safety.
type SafetyResponse struct {
	RunID string `json:"run_id"`
	safety.Trace
}

// ScheduleResponse is returned by POST /api/schedule.
type ScheduleResponse struct {
	RunID string `json:"run_id"`
	domain.ScheduleResult
}

// CompareResponse is returned by POST /api/compare.
type CompareResponse struct {
	RunID string `json:"run_id"`
	domain.Comparison
}

func (s *Server) handleSafety(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.decode(w, r)
	if !ok {
		return
	}
	tr, err := s.planner.Check(snap.Available, snap.Processes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SafetyResponse{RunID: uuid.NewString(), Trace: tr})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	snap, policy, ok := s.decode(w, r)
	if !ok {
		return
	}
	res, err := s.planner.Simulate(snap.PowerLimit, snap.Processes, policy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{RunID: uuid.NewString(), ScheduleResult: res})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	snap, policy, ok := s.decode(w, r)
	if !ok {
		return
	}
	cmp, err := s.planner.Compare(snap.PowerLimit, snap.Processes, policy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{RunID: uuid.NewString(), Comparison: cmp})
}

// handleRun runs the full check-then-schedule flow. ?strict=true turns a
// withheld schedule into 409 instead of a report with withheld set.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	snap, policy, ok := s.decode(w, r)
	if !ok {
		return
	}
	force := queryBool(r, "force")
	rep, err := s.planner.Run(snap, policy, planner.Options{Force: force})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rep.Withheld && queryBool(r, "strict") {
		writeDomainError(w, domain.ErrUnsafeState)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// decode reads a loose snapshot from the request body and normalizes it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (domain.Snapshot, domain.Policy, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	var in snapshot.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), "body_too_large")
			return domain.Snapshot{}, 0, false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "invalid_body")
		return domain.Snapshot{}, 0, false
	}
	if in.Dimensions == 0 && len(in.Available) == 0 {
		in.Dimensions = s.opts.Dimensions
	}

	def := s.opts.DefaultPolicy
	if q := r.URL.Query().Get("policy"); q != "" {
		in.Policy = q
	}
	policy, err := in.PolicyOr(def)
	if err != nil {
		writeDomainError(w, err)
		return domain.Snapshot{}, 0, false
	}
	return in.Normalize(), policy, true
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}
