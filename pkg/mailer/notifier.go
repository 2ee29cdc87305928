package mailer

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// Publisher is satisfied by helpers.RabbitQueue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns account events into queued email jobs.
type QueueNotifier struct {
	pub     Publisher
	appName string
}

func NewQueueNotifier(pub Publisher, appName string) *QueueNotifier {
	return &QueueNotifier{pub: pub, appName: appName}
}

func (n *QueueNotifier) UserRegistered(ctx context.Context, u *entity.User) error {
	return n.pub.PublishJSON(ctx, EmailJob{
		To:       u.Email,
		Template: TemplateWelcome,
		Data: map[string]any{
			"Name":    u.Name,
			"AppName": n.appName,
		},
	})
}
