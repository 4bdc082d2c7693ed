package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rtsim/sim"
)

// maxBodyBytes bounds the size of a /simulate request body.
const maxBodyBytes = 1 << 20

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	log := s.logger.WithField("request_id", reqID)

	var req sim.SimulationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusBadRequest, CodeInvalidRequest,
				fmt.Sprintf("request body exceeds %s", humanize.IBytes(uint64(tooLarge.Limit))))
			return
		}
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "malformed JSON body: "+err.Error())
		return
	}

	plan, err := req.Validate()
	if err != nil {
		s.respondSimulationError(w, log, err)
		return
	}
	if s.config.MaxDuration > 0 && plan.Horizon > s.config.MaxDuration {
		respondError(w, http.StatusBadRequest, CodeInvalidDuration,
			fmt.Sprintf("duration %s ms exceeds the server limit of %s ms",
				humanize.Comma(plan.Horizon), humanize.Comma(s.config.MaxDuration)))
		return
	}

	resp, err := plan.Run(nil)
	if err != nil {
		s.respondSimulationError(w, log, err)
		return
	}
	log.WithFields(logrus.Fields{
		"algorithm": plan.Algorithm,
		"tasks":     plan.Tasks.Len(),
		"duration":  plan.Horizon,
		"misses":    resp.Metrics.TotalDeadlineMisses,
	}).Debug("simulation complete")

	respondJSON(w, http.StatusOK, resp)
}

// respondSimulationError maps the engine's typed errors to error codes.
func (s *Server) respondSimulationError(w http.ResponseWriter, log *logrus.Entry, err error) {
	var (
		taskErr *sim.InvalidTaskError
		durErr  *sim.InvalidDurationError
		algoErr *sim.UnknownAlgorithmError
	)
	code := CodeInvalidRequest
	switch {
	case errors.As(err, &taskErr):
		code = CodeInvalidTask
	case errors.As(err, &durErr):
		code = CodeInvalidDuration
	case errors.As(err, &algoErr):
		code = CodeUnknownAlgorithm
	}
	log.WithField("error", code).Debugf("rejected request: %v", err)
	respondError(w, http.StatusBadRequest, code, err.Error())
}
