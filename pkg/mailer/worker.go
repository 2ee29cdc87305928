package mailer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // nack without requeue: the message can never succeed
	Requeue         // nack with requeue: delivery failed, try again later
)

var ErrNoRecipient = errors.New("mailer: job has no recipient")

// Worker turns queued EmailJob payloads into sent mail.
type Worker struct {
	Sender Sender
	Logger *logrus.Logger
}

func NewWorker(s Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: s, Logger: logger}
}

// Handle decodes, renders and sends one job.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	if job.To == "" {
		w.Logger.WithError(ErrNoRecipient).Warn("bad email job")
		return Drop
	}
	if err := job.Resolve(); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return Drop
	}
	if err := w.Sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("send failed")
		return Requeue
	}
	w.Logger.WithField("template", job.Template).Info("email sent")
	return Ack
}
