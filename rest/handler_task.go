package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req model.TaskRequest
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid task request")
		return
	}
	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		respondWithError(w, http.StatusBadRequest, "invalid priority")
		return
	}
	id := s.engine.Tasks().CreateTask(req)
	respondOK(w, http.StatusCreated, map[string]any{"task_id": id})
}

func (s *Server) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	assignee := r.URL.Query().Get("assignee")
	status := model.TaskStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondWithError(w, http.StatusBadRequest, "invalid status")
		return
	}
	tasks := s.engine.Tasks()
	var out []*model.Task
	switch {
	case assignee != "":
		out = tasks.GetTasksByAssignee(assignee)
		if status != "" {
			filtered := make([]*model.Task, 0, len(out))
			for _, t := range out {
				if t.Status == status {
					filtered = append(filtered, t)
				}
			}
			out = filtered
		}
	case status != "":
		out = tasks.GetTasksByStatus(status)
	default:
		out = tasks.ListTasks()
	}
	respondOK(w, http.StatusOK, out)
}

func (s *Server) HandleOverdueTasks(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, s.engine.Tasks().GetOverdueTasks())
}

func (s *Server) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	t := s.engine.Tasks().GetTask(id)
	if t == nil {
		respondWithError(w, http.StatusNotFound, "task does not exist")
		return
	}
	respondOK(w, http.StatusOK, t)
}

func (s *Server) HandleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req model.TaskStatusUpdate
	if err := decode(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid status update")
		return
	}
	if !req.Status.Valid() {
		respondWithError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if !s.engine.Tasks().UpdateTaskStatus(id, req.Status, req.Progress) {
		logger.Info("task does not exist", zap.String("task", id))
		respondWithError(w, http.StatusNotFound, "task does not exist")
		return
	}
	respondOK(w, http.StatusOK, s.engine.Tasks().GetTask(id))
}
