package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hotgigs/automation/autoapply"
	"github.com/hotgigs/automation/engine"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

type WorkflowScheduler interface {
	Schedule(wf *model.Workflow) error
}

type Server struct {
	http.Server
	Port      int
	engine    *engine.Engine
	autoApply *autoapply.Service
	scheduler WorkflowScheduler
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewServer wires the routes. scheduler may be nil, in which case scheduled workflows are
// stored but never fired.
func NewServer(httpPort int, eng *engine.Engine, autoApply *autoapply.Service, scheduler WorkflowScheduler) *Server {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		engine:    eng,
		autoApply: autoApply,
		scheduler: scheduler,
		Port:      httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/tasks", s.HandleCreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks", s.HandleListTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/overdue", s.HandleOverdueTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id}", s.HandleGetTask).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id}/status", s.HandleUpdateTaskStatus).Methods(http.MethodPut)

	router.HandleFunc("/workflows", s.HandleCreateWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/workflows", s.HandleListWorkflows).Methods(http.MethodGet)
	router.HandleFunc("/workflows/validate", s.HandleValidateWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/workflows/{id}", s.HandleGetWorkflow).Methods(http.MethodGet)
	router.HandleFunc("/workflows/{id}/execute", s.HandleExecuteWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/workflows/{id}/pause", s.HandlePauseWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/workflows/{id}/resume", s.HandleResumeWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/executions/{id}", s.HandleGetExecution).Methods(http.MethodGet)

	router.HandleFunc("/events/{name}", s.HandleEvent).Methods(http.MethodPost)
	router.HandleFunc("/triggers/evaluate", s.HandleEvaluateTriggers).Methods(http.MethodPost)

	router.HandleFunc("/auto-apply/setup", s.HandleSetupAutoApply).Methods(http.MethodPost)
	router.HandleFunc("/auto-apply/compatibility", s.HandleCompatibility).Methods(http.MethodPost)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("http request", zap.String("method", r.Method), zap.String("uri", r.RequestURI))
		next.ServeHTTP(w, r)
	})
}

// decode accepts an empty body as the zero value.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	res, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(res)
}

func respondOK(w http.ResponseWriter, code int, data any) {
	respondWithJSON(w, code, response{Success: true, Data: data})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, response{Success: false, Error: message})
}
