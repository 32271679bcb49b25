package action

import (
	"context"
	"fmt"

	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

const (
	CTX_CREATED_TASK_ID       = "created_task_id"
	CTX_SCREENING_SCORE       = "screening_score"
	CTX_SCREENING_PASSED      = "screening_passed"
	CTX_AI_ANALYSIS_RESULT    = "ai_analysis_result"
	CTX_APPLICATION_SUBMITTED = "application_submitted"
	CTX_APPLICATION_STATUS    = "application_status"
	CTX_INTERVIEW_SCHEDULED   = "interview_scheduled"
)

const (
	DEFAULT_MIN_SCREENING_SCORE = 70.0
	PLACEHOLDER_SCREENING_SCORE = 75.0
)

var _ Handler = new(createTaskHandler)

type createTaskHandler struct {
	baseHandler
	tasks TaskCreator
}

func NewCreateTaskHandler(tasks TaskCreator) *createTaskHandler {
	return &createTaskHandler{baseHandler: baseHandler{kind: CREATE_TASK}, tasks: tasks}
}

func (h *createTaskHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	req := model.TaskRequest{
		Title:       paramString(params, "title"),
		Description: paramString(params, "description"),
		TaskType:    paramString(params, "task_type"),
		AssignedTo:  paramString(params, "assigned_to"),
		CreatedBy:   "workflow",
		Priority:    model.TaskPriority(paramString(params, "priority")),
	}
	if req.TaskType == "" {
		req.TaskType = "general"
	}
	if !req.Priority.Valid() {
		req.Priority = model.PriorityMedium
	}
	if meta := paramMap(params, "metadata"); meta != nil {
		req.Metadata = meta
	}
	data[CTX_CREATED_TASK_ID] = h.tasks.CreateTask(req)
	return true, nil
}

var _ Handler = new(sendNotificationHandler)

type sendNotificationHandler struct {
	baseHandler
	notifier Notifier
}

func NewSendNotificationHandler(notifier Notifier) *sendNotificationHandler {
	return &sendNotificationHandler{baseHandler: baseHandler{kind: SEND_NOTIFICATION}, notifier: notifier}
}

func (h *sendNotificationHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	recipient := paramOrContext(params, data, "recipient")
	message := paramString(params, "message")
	notificationType := paramString(params, "type")
	if notificationType == "" {
		notificationType = "info"
	}
	if h.notifier == nil {
		logger.Info("notification", zap.String("recipient", recipient), zap.String("type", notificationType), zap.String("message", message))
		return true, nil
	}
	ok, err := h.notifier.Send(ctx, recipient, message, notificationType)
	if err != nil {
		logger.Error("error sending notification", zap.String("recipient", recipient), zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrCollaboratorError, err)
	}
	return ok, nil
}

var _ Handler = new(updateApplicationStatusHandler)

type updateApplicationStatusHandler struct {
	baseHandler
	tracker ApplicationTracker
}

func NewUpdateApplicationStatusHandler(tracker ApplicationTracker) *updateApplicationStatusHandler {
	return &updateApplicationStatusHandler{baseHandler: baseHandler{kind: UPDATE_APPLICATION_STATUS}, tracker: tracker}
}

func (h *updateApplicationStatusHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	applicationId := paramOrContext(params, data, "application_id")
	status := paramString(params, "status")
	if applicationId == "" || status == "" {
		return false, fmt.Errorf("%w: application_id and status are required", ErrMissingParameter)
	}
	ok := true
	if h.tracker == nil {
		logger.Info("application status updated", zap.String("application", applicationId), zap.String("status", status))
	} else {
		var err error
		ok, err = h.tracker.UpdateStatus(ctx, applicationId, status)
		if err != nil {
			logger.Error("error updating application status", zap.String("application", applicationId), zap.Error(err))
			return false, fmt.Errorf("%w: %v", ErrCollaboratorError, err)
		}
	}
	if ok {
		data[CTX_APPLICATION_STATUS] = status
	}
	return ok, nil
}

var _ Handler = new(autoApplyHandler)

type autoApplyHandler struct {
	baseHandler
	submitter ApplicationSubmitter
	tasks     TaskCreator
}

func NewAutoApplyHandler(submitter ApplicationSubmitter, tasks TaskCreator) *autoApplyHandler {
	return &autoApplyHandler{baseHandler: baseHandler{kind: AUTO_APPLY}, submitter: submitter, tasks: tasks}
}

func (h *autoApplyHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	candidateId := paramOrContext(params, data, "candidate_id")
	jobId := paramOrContext(params, data, "job_id")
	if candidateId == "" || jobId == "" {
		return false, fmt.Errorf("%w: candidate_id and job_id are required", ErrMissingParameter)
	}
	ok := true
	if h.submitter == nil {
		logger.Info("auto application submitted", zap.String("candidate", candidateId), zap.String("job", jobId))
	} else {
		var err error
		ok, err = h.submitter.Submit(ctx, candidateId, jobId)
		if err != nil {
			logger.Error("error submitting application", zap.String("candidate", candidateId), zap.String("job", jobId), zap.Error(err))
			return false, fmt.Errorf("%w: %v", ErrCollaboratorError, err)
		}
	}
	if !ok {
		return false, nil
	}
	data[CTX_APPLICATION_SUBMITTED] = true
	data[CTX_CREATED_TASK_ID] = h.tasks.CreateTask(model.TaskRequest{
		Title:       "Review auto-application",
		Description: fmt.Sprintf("Review the automatic application of candidate %s to job %s", candidateId, jobId),
		TaskType:    "application_review",
		AssignedTo:  candidateId,
		CreatedBy:   "auto_apply",
		Metadata:    map[string]any{"candidate_id": candidateId, "job_id": jobId},
	})
	return true, nil
}

var _ Handler = new(screenCandidateHandler)

type screenCandidateHandler struct {
	baseHandler
	screener Screener
}

func NewScreenCandidateHandler(screener Screener) *screenCandidateHandler {
	return &screenCandidateHandler{baseHandler: baseHandler{kind: SCREEN_CANDIDATE}, screener: screener}
}

func (h *screenCandidateHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	candidateId := paramOrContext(params, data, "candidate_id")
	jobId := paramOrContext(params, data, "job_id")
	criteria := paramMap(params, "criteria")
	minScore := paramFloat(criteria, "min_score", DEFAULT_MIN_SCREENING_SCORE)

	score := PLACEHOLDER_SCREENING_SCORE
	if h.screener != nil {
		res, err := h.screener.Score(ctx, candidateId, jobId, criteria)
		if err != nil {
			logger.Error("error screening candidate", zap.String("candidate", candidateId), zap.String("job", jobId), zap.Error(err))
			return false, fmt.Errorf("%w: %v", ErrCollaboratorError, err)
		}
		score = res.Score
	}
	data[CTX_SCREENING_SCORE] = score
	data[CTX_SCREENING_PASSED] = score >= minScore
	return true, nil
}

var _ Handler = new(scheduleInterviewHandler)

type scheduleInterviewHandler struct {
	baseHandler
	scheduler InterviewScheduler
	tasks     TaskCreator
}

func NewScheduleInterviewHandler(scheduler InterviewScheduler, tasks TaskCreator) *scheduleInterviewHandler {
	return &scheduleInterviewHandler{baseHandler: baseHandler{kind: SCHEDULE_INTERVIEW}, scheduler: scheduler, tasks: tasks}
}

func (h *scheduleInterviewHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	candidateId := paramOrContext(params, data, "candidate_id")
	interviewerId := paramOrContext(params, data, "interviewer_id")
	interviewType := paramString(params, "interview_type")
	if interviewType == "" {
		interviewType = "general"
	}
	if candidateId == "" || interviewerId == "" {
		return false, fmt.Errorf("%w: candidate_id and interviewer_id are required", ErrMissingParameter)
	}
	ok := true
	if h.scheduler == nil {
		logger.Info("interview scheduled", zap.String("candidate", candidateId), zap.String("interviewer", interviewerId), zap.String("type", interviewType))
	} else {
		var err error
		ok, err = h.scheduler.Schedule(ctx, candidateId, interviewerId, interviewType)
		if err != nil {
			logger.Error("error scheduling interview", zap.String("candidate", candidateId), zap.Error(err))
			return false, fmt.Errorf("%w: %v", ErrCollaboratorError, err)
		}
	}
	if !ok {
		return false, nil
	}
	data[CTX_INTERVIEW_SCHEDULED] = true
	data[CTX_CREATED_TASK_ID] = h.tasks.CreateTask(model.TaskRequest{
		Title:       fmt.Sprintf("Conduct %s interview", interviewType),
		Description: fmt.Sprintf("Interview candidate %s", candidateId),
		TaskType:    "interview",
		AssignedTo:  interviewerId,
		CreatedBy:   "schedule_interview",
		Priority:    model.PriorityHigh,
		Metadata:    map[string]any{"candidate_id": candidateId, "interview_type": interviewType},
	})
	return true, nil
}

var _ Handler = new(aiAnalysisHandler)

// promoted result keys are copied from the analysis result onto the context so that
// downstream condition gates can see them.
var promoted = []string{"match_score", "jobs_found", "suitable_jobs", "job_id", "job_ids", "recommendation"}

type aiAnalysisHandler struct {
	baseHandler
	analyzer Analyzer
}

func NewAIAnalysisHandler(analyzer Analyzer) *aiAnalysisHandler {
	return &aiAnalysisHandler{baseHandler: baseHandler{kind: AI_ANALYSIS}, analyzer: analyzer}
}

func (h *aiAnalysisHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	analysisType := paramString(params, "analysis_type")
	if analysisType == "" {
		return false, fmt.Errorf("%w: analysis_type is required", ErrMissingParameter)
	}
	input := paramMap(params, "data")
	if input == nil {
		input = make(map[string]any, len(params))
		for k, v := range params {
			if k != "analysis_type" {
				input[k] = v
			}
		}
	}
	var result map[string]any
	if h.analyzer == nil {
		logger.Info("ai analysis unavailable, using placeholder", zap.String("analysisType", analysisType))
		result = map[string]any{"analysis_type": analysisType, "status": "unavailable"}
	} else {
		var err error
		result, err = h.analyzer.Analyze(ctx, analysisType, input)
		if err != nil {
			logger.Error("error running ai analysis", zap.String("analysisType", analysisType), zap.Error(err))
			return false, fmt.Errorf("%w: %v", ErrCollaboratorError, err)
		}
	}
	data[CTX_AI_ANALYSIS_RESULT] = result
	for _, key := range promoted {
		if v, ok := result[key]; ok {
			data[key] = v
		}
	}
	return true, nil
}
