package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendMail delivers transactional e-mails (house invitations).
	TaskTypeSendMail = "mail:send"
	// TaskTypeIdempotencyCleanup purges stale idempotency keys.
	TaskTypeIdempotencyCleanup = "maintenance:idempotency-cleanup"
)

// SendMailPayload describes one outgoing e-mail.
type SendMailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendMailTask constructs an asynq task for the payload.
func NewSendMailTask(payload SendMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendMail, data), nil
}

// NewIdempotencyCleanupTask constructs the periodic purge task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeIdempotencyCleanup, nil)
}

// invitationMail renders the invite e-mail for a house.
func invitationMail(email, token, houseName, baseURL string) SendMailPayload {
	return SendMailPayload{
		To:      email,
		Subject: fmt.Sprintf("Convite para %s", houseName),
		Body: fmt.Sprintf(
			"Você foi convidado(a) para a casa %s.\n\nAceite o convite em: %s/convite/%s\n",
			houseName, baseURL, token,
		),
	}
}
