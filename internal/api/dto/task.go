package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"stock-sentiment-tracker/internal/entity"
)

// ValidationError marks a request as rejected before it reached the queue.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// CreateTaskRequest is the DTO for enqueuing a new task.
type CreateTaskRequest struct {
	TaskType string          `json:"task_type"`
	Ticker   string          `json:"ticker,omitempty"`
	Priority int             `json:"priority"`
	Payload  json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
}

// Validate checks the request against the known task types and normalizes
// the ticker. It never touches the database.
func (r *CreateTaskRequest) Validate() error {
	taskType := entity.TaskType(r.TaskType)
	if !taskType.Valid() {
		return &ValidationError{Reason: fmt.Sprintf("unknown task type %q", r.TaskType)}
	}
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if taskType.RequiresTicker() && r.Ticker == "" {
		return &ValidationError{Reason: fmt.Sprintf("task type %s requires a ticker", r.TaskType)}
	}
	if len(r.Payload) > 0 && !json.Valid(r.Payload) {
		return &ValidationError{Reason: "payload is not valid JSON"}
	}
	return nil
}

// TaskResponse is the DTO for API responses containing task details.
type TaskResponse struct {
	ID        uint            `json:"id"`
	TaskType  string          `json:"task_type"`
	Ticker    string          `json:"ticker,omitempty"`
	Priority  int             `json:"priority"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	Attempts  int             `json:"attempts"`
	Error     string          `json:"error,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}
