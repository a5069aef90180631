package taskqueue

import "time"

// NotificationTask is the body delivered to the notification worker for one
// detected shake. TaskID doubles as the queue task name so a retried
// registration of the same event is rejected by the queue.
type NotificationTask struct {
	ScheduleAt time.Time `json:"-"`

	TaskID            string    `json:"task_id"`
	TaskType          string    `json:"task_type"`
	DeviceID          string    `json:"device_id"`
	DetectedAt        time.Time `json:"detected_at"`
	SampleTimestamp   int64     `json:"sample_timestamp_ns"`
	SampleCount       int       `json:"sample_count"`
	AcceleratingCount int       `json:"accelerating_count"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
