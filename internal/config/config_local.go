//go:build !gcloud

package config

// Enabled reports whether PRIMIND_TASKS_URL is set.
func (c *TaskQueueConfig) Enabled() bool {
	return c.PrimindTasksURL != ""
}

// Validate accepts an empty PRIMIND_TASKS_URL: notification delivery through
// the task queue is then disabled.
func (c *TaskQueueConfig) Validate() error {
	return nil
}
