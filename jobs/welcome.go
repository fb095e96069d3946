package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"maragu.dev/errors"
	"maragu.dev/goqite"

	"github.com/glue-apps/dashboard/email"
	"github.com/glue-apps/dashboard/model"
)

const UserCreatedJobName = "user-created"

// UserCreatedMessage is the payload of a [UserCreatedJobName] job.
// It never carries the password.
type UserCreatedMessage struct {
	Email model.EmailAddress `json:"email"`
	Name  string             `json:"name"`
	Role  model.Role         `json:"role"`
}

// CreateUserCreated enqueues a job to welcome a user created from the dashboard.
func CreateUserCreated(ctx context.Context, q *goqite.Queue, m UserCreatedMessage) error {
	body, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "error marshalling user created message")
	}
	return Create(ctx, q, UserCreatedJobName, body)
}

type RegisterOpts struct {
	Log *slog.Logger
	// Sender of emails. If nil, welcome emails are logged and skipped.
	Sender email.Sender
}

// Register all jobs with the runner.
func Register(r *Runner, opts RegisterOpts) {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	r.Register(UserCreatedJobName, WithTracing(UserCreatedJobName, SendWelcomeEmail(opts.Log, opts.Sender)))
}

// SendWelcomeEmail to the user in a [UserCreatedMessage].
func SendWelcomeEmail(log *slog.Logger, sender email.Sender) Func {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(ctx context.Context, m []byte) error {
		var msg UserCreatedMessage
		if err := json.Unmarshal(m, &msg); err != nil {
			return errors.Wrap(err, "error unmarshalling user created message")
		}

		if !msg.Email.IsValid() {
			log.Info("Not sending welcome email, invalid address", "email", msg.Email)
			return nil
		}

		if sender == nil {
			log.Info("Not sending welcome email, no email sender configured", "email", msg.Email)
			return nil
		}

		name := msg.Name
		if name == "" {
			name = msg.Email.Local()
		}

		keywords := model.Keywords{
			"name": name,
			"role": msg.Role.Pretty(),
		}

		if err := sender.SendTransactional(ctx, name, msg.Email, "Welcome aboard", "Your account has been created by an administrator.", "welcome", keywords); err != nil {
			return errors.Wrap(err, "error sending welcome email")
		}

		log.Info("Sent welcome email", "email", msg.Email)
		return nil
	}
}
