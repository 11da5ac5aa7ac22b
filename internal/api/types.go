// Package api provides a client for a remote task collection served over HTTP JSON.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TaskID is the server-assigned task identity.
// Servers may send it as a JSON string or a JSON number; both decode to the
// same textual form.
type TaskID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s: %w", data, err)
	}
	*id = TaskID(n.String())
	return nil
}

// String returns the id as used in URL paths.
func (id TaskID) String() string {
	return string(id)
}

// Task is a single entry of the remote collection.
type Task struct {
	ID    TaskID `json:"id"`
	Title string `json:"title"`
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Title string `json:"title"`
}
