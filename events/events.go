package events

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Kind names the listener callback an event corresponds to.
type Kind string

const (
	KindSubmitted Kind = "submitted"
	KindStarting  Kind = "starting"
	KindRunning   Kind = "running"
	KindAborted   Kind = "aborted"
	KindDone      Kind = "done"
)

var kindJSON = map[Kind][]byte{
	KindSubmitted: []byte(`{"type":"submitted"}`),
	KindStarting:  []byte(`{"type":"starting"}`),
	KindRunning:   []byte(`{"type":"running"}`),
	KindAborted:   []byte(`{"type":"aborted"}`),
	KindDone:      []byte(`{"type":"done"}`),
}

// TaskEvent is the record delivered to listeners on every lifecycle
// transition of a task.
type TaskEvent struct {
	Kind      Kind            `json:"type"`
	TaskID    uuid.UUID       `json:"task_id"`
	Executor  string          `json:"executor,omitempty"`
	State     TaskState       `json:"state"`
	Failure   string          `json:"failure,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

// MarshalJSON implements custom JSON marshaling for TaskEvent
func (e TaskEvent) MarshalJSON() ([]byte, error) {
	result, ok := kindJSON[e.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}

	var err error
	result, err = sjson.SetBytes(result, "task_id", e.TaskID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "state", e.State.String())
	if err != nil {
		return nil, err
	}

	if e.Executor != "" {
		result, err = sjson.SetBytes(result, "executor", e.Executor)
		if err != nil {
			return nil, err
		}
	}

	if e.Failure != "" {
		result, err = sjson.SetBytes(result, "failure", e.Failure)
		if err != nil {
			return nil, err
		}
	}

	if !e.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", e.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	if e.Meta.Exists() {
		result, err = sjson.SetRawBytes(result, "meta", []byte(e.Meta.Raw))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for TaskEvent
func (e *TaskEvent) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	kind := gjson.GetBytes(data, "type")
	if !kind.Exists() {
		return fmt.Errorf("missing required field 'type'")
	}
	if _, ok := kindJSON[Kind(kind.String())]; !ok {
		return fmt.Errorf("unknown event kind %q", kind.String())
	}
	e.Kind = Kind(kind.String())

	taskID := gjson.GetBytes(data, "task_id")
	if !taskID.Exists() {
		return fmt.Errorf("missing required field 'task_id'")
	}
	if err := e.TaskID.UnmarshalText([]byte(taskID.String())); err != nil {
		return fmt.Errorf("invalid task_id: %w", err)
	}

	state := gjson.GetBytes(data, "state")
	if !state.Exists() {
		return fmt.Errorf("missing required field 'state'")
	}
	if err := e.State.UnmarshalText([]byte(state.String())); err != nil {
		return err
	}

	e.Executor = gjson.GetBytes(data, "executor").String()
	e.Failure = gjson.GetBytes(data, "failure").String()

	if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
		parsed, err := strfmt.ParseDateTime(ts.String())
		if err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
		e.Timestamp = parsed
	}

	if meta := gjson.GetBytes(data, "meta"); meta.Exists() {
		e.Meta = meta
	}

	return nil
}
