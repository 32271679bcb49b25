package rest

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hotgigs/automation/engine"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/metadata"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req model.WorkflowRequest
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid workflow request")
		return
	}
	id := s.engine.CreateWorkflow(req)
	if req.TriggerType == model.TriggerScheduled && s.scheduler != nil {
		if err := s.scheduler.Schedule(s.engine.GetWorkflow(id)); err != nil {
			logger.Error("error scheduling workflow", zap.String("workflow", id), zap.Error(err))
		}
	}
	respondOK(w, http.StatusCreated, map[string]any{"workflow_id": id})
}

func (s *Server) HandleValidateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req model.WorkflowRequest
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid workflow request")
		return
	}
	problems := []string{}
	err := metadata.ValidateWorkflow(&model.Workflow{Name: req.Name, Steps: req.Steps})
	var verr *metadata.ValidationError
	if errors.As(err, &verr) {
		problems = verr.Problems
	}
	respondOK(w, http.StatusOK, map[string]any{"valid": len(problems) == 0, "problems": problems})
}

func (s *Server) HandleListWorkflows(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, s.engine.ListWorkflows())
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	wf := s.engine.GetWorkflow(id)
	if wf == nil {
		logger.Info("workflow does not exist", zap.String("workflow", id))
		respondWithError(w, http.StatusNotFound, "workflow does not exist")
		return
	}
	respondOK(w, http.StatusOK, wf)
}

func (s *Server) HandleExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req model.WorkflowRunRequest
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid run request")
		return
	}
	x, err := s.engine.Submit(id, req.Context)
	if err != nil {
		logger.Info("workflow execution rejected", zap.String("workflow", id), zap.Error(err))
		respondWithError(w, submitErrorCode(err), err.Error())
		return
	}
	respondOK(w, http.StatusAccepted, map[string]any{"execution_id": x.Id, "accepted": true})
}

func submitErrorCode(err error) int {
	switch {
	case errors.Is(err, engine.ErrWorkflowNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrWorkflowInactive):
		return http.StatusConflict
	case errors.Is(err, engine.ErrEngineStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) HandlePauseWorkflow(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, mux.Vars(r)["id"], model.WorkflowPaused)
}

func (s *Server) HandleResumeWorkflow(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, mux.Vars(r)["id"], model.WorkflowActive)
}

func (s *Server) setStatus(w http.ResponseWriter, id string, status model.WorkflowStatus) {
	if !s.engine.SetWorkflowStatus(id, status) {
		respondWithError(w, http.StatusNotFound, "workflow does not exist")
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"workflow_id": id, "status": status})
}

func (s *Server) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	x, ok := s.engine.GetExecution(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "execution does not exist")
		return
	}
	res, done := x.Result()
	if !done {
		respondOK(w, http.StatusOK, map[string]any{"execution_id": x.Id, "workflow_id": x.WorkflowId, "state": x.State()})
		return
	}
	respondOK(w, http.StatusOK, res)
}
