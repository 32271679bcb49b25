package rest

import (
	"net/http"

	"github.com/hotgigs/automation/autoapply"
	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
)

type autoApplySetupRequest struct {
	CandidateId string             `json:"candidate_id"`
	Criteria    autoapply.Criteria `json:"criteria"`
}

type compatibilityRequest struct {
	Profile autoapply.CandidateProfile `json:"profile"`
	Job     autoapply.JobDescription   `json:"job"`
}

func (s *Server) HandleSetupAutoApply(w http.ResponseWriter, r *http.Request) {
	var req autoApplySetupRequest
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid auto-apply request")
		return
	}
	if req.CandidateId == "" {
		respondWithError(w, http.StatusBadRequest, "candidate_id is required")
		return
	}
	id := s.autoApply.SetupAutoApplyWorkflow(req.CandidateId, req.Criteria)
	if s.scheduler != nil {
		if err := s.scheduler.Schedule(s.engine.GetWorkflow(id)); err != nil {
			logger.Error("error scheduling auto-apply workflow", zap.String("workflow", id), zap.Error(err))
		}
	}
	respondOK(w, http.StatusCreated, map[string]any{"workflow_id": id})
}

func (s *Server) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	var req compatibilityRequest
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid compatibility request")
		return
	}
	respondOK(w, http.StatusOK, s.autoApply.AnalyzeJobCompatibility(r.Context(), req.Profile, req.Job))
}
