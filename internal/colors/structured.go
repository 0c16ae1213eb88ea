package colors

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredLogLevel is the level field of a structured line.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// Fields carries extra key-value context for a structured entry.
type Fields = map[string]interface{}

// StructuredLogEntry is one JSON line describing a step of an invocation.
// Component names the subsystem (endpoint, session, autostart, wait, ...),
// Action the step inside it and Status its outcome.
type StructuredLogEntry struct {
	Timestamp string             `json:"timestamp"`
	Level     StructuredLogLevel `json:"level"`
	Component string             `json:"component"`
	Action    string             `json:"action"`
	Status    string             `json:"status"`
	Error     string             `json:"error,omitempty"`
	ID        string             `json:"id,omitempty"`
	Fields    Fields             `json:"fields,omitempty"`
}

// StructuredLog writes entry as a JSON line to stderr when debug mode is on.
// The id is usually the endpoint address the entry refers to.
func StructuredLog(level StructuredLogLevel, component, action, status string, err error, id string, fields Fields) {
	if !debugEnabled.Load() {
		return
	}

	entry := StructuredLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Action:    action,
		Status:    status,
		ID:        id,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		data = []byte(fmt.Sprintf(`{"level":"error","component":"colors","action":"marshal","status":"failed","error":%q}`, marshalErr.Error()))
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	fmt.Fprintf(os.Stderr, "%s\n", data)
}

// StructuredDebug logs a structured debug entry.
func StructuredDebug(component, action, status string, err error, id string, fields Fields) {
	StructuredLog(LevelDebug, component, action, status, err, id, fields)
}

// StructuredInfo logs a structured info entry.
func StructuredInfo(component, action, status string, err error, id string, fields Fields) {
	StructuredLog(LevelInfo, component, action, status, err, id, fields)
}

// StructuredWarn logs a structured warning entry.
func StructuredWarn(component, action, status string, err error, id string, fields Fields) {
	StructuredLog(LevelWarn, component, action, status, err, id, fields)
}

// StructuredError logs a structured error entry.
func StructuredError(component, action, status string, err error, id string, fields Fields) {
	StructuredLog(LevelError, component, action, status, err, id, fields)
}
