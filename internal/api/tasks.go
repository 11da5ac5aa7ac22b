package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var errMissingID = errors.New("response task has no id")

func taskPath(id TaskID) string {
	return "/" + url.PathEscape(id.String())
}

// GetTasks returns the whole collection.
func (c *Client) GetTasks(ctx context.Context) ([]Task, error) {
	tasks := make([]Task, 0)
	if err := c.Get(ctx, "", &tasks); err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a new task and returns it with its server-assigned id.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Post(ctx, "", req, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if task.ID == "" {
		return nil, fmt.Errorf("failed to create task: %w", errMissingID)
	}
	return &task, nil
}

// UpdateTask replaces the title of an existing task.
func (c *Client) UpdateTask(ctx context.Context, id TaskID, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Put(ctx, taskPath(id), req, &task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	if task.ID == "" {
		return nil, fmt.Errorf("failed to update task %s: %w", id, errMissingID)
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id TaskID) error {
	if err := c.Delete(ctx, taskPath(id)); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
