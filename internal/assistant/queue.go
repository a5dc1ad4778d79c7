package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Queue transports encoded follow-up jobs between the publisher and the
// worker. MemoryQueue serves single-process deployments; SQSQueue serves
// deployments with a separate worker.
type Queue interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]QueueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type QueueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

func encodeFollowUpJob(job FollowUpJob) (FollowUpJob, string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	body, err := json.Marshal(job)
	if err != nil {
		return FollowUpJob{}, "", fmt.Errorf("assistant: failed to encode follow-up job: %w", err)
	}
	return job, string(body), nil
}
