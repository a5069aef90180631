//go:build gcloud

package config

import (
	"errors"
	"fmt"
)

// Enabled reports whether any Cloud Tasks setting is present. Shake
// notifications skip the task queue when none is.
func (c *TaskQueueConfig) Enabled() bool {
	return c.GCloudProjectID != "" || c.GCloudLocationID != "" ||
		c.GCloudQueueID != "" || c.GCloudTargetURL != ""
}

// Validate rejects a partially configured Cloud Tasks queue.
func (c *TaskQueueConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}

	required := []struct {
		env   string
		value string
	}{
		{env: "GCLOUD_PROJECT_ID", value: c.GCloudProjectID},
		{env: "GCLOUD_LOCATION_ID", value: c.GCloudLocationID},
		{env: "GCLOUD_QUEUE_ID", value: c.GCloudQueueID},
		{env: "GCLOUD_TARGET_URL", value: c.GCloudTargetURL},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required when the cloud tasks queue is configured", r.env))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
