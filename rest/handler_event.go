package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hotgigs/automation/engine"
	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
)

// HandleEvent runs the event workflows listening on the name, then every condition workflow
// whose gate passes against the payload.
func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var data map[string]any
	if err := decode(r, &data); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	executions := s.engine.TriggerEvent(name, data)
	executions = append(executions, s.engine.EvaluateConditionTriggers(data)...)
	ids := executionIds(executions)
	logger.Info("event consumed", zap.String("event", name), zap.Int("executions", len(ids)))
	respondOK(w, http.StatusAccepted, map[string]any{"executions": ids})
}

func (s *Server) HandleEvaluateTriggers(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := decode(r, &data); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid trigger payload")
		return
	}
	ids := executionIds(s.engine.EvaluateConditionTriggers(data))
	logger.Info("condition triggers evaluated", zap.Int("executions", len(ids)))
	respondOK(w, http.StatusAccepted, map[string]any{"executions": ids})
}

func executionIds(executions []*engine.Execution) []string {
	ids := make([]string, 0, len(executions))
	for _, x := range executions {
		ids = append(ids, x.Id)
	}
	return ids
}
