package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"maragu.dev/is"

	"github.com/glue-apps/dashboard/jobs"
	"github.com/glue-apps/dashboard/model"
	"github.com/glue-apps/dashboard/sqlitetest"
)

type sentEmail struct {
	name     string
	email    model.EmailAddress
	template string
	keywords model.Keywords
}

type fakeSender struct {
	err  error
	sent []sentEmail
}

func (f *fakeSender) SendTransactional(ctx context.Context, name string, email model.EmailAddress, subject, preheader, template string, kw model.Keywords) error {
	f.sent = append(f.sent, sentEmail{name: name, email: email, template: template, keywords: kw})
	return f.err
}

func TestSendWelcomeEmail(t *testing.T) {
	t.Run("sends the welcome template to the created user", func(t *testing.T) {
		sender := &fakeSender{}
		f := jobs.SendWelcomeEmail(nil, sender)

		body, err := json.Marshal(jobs.UserCreatedMessage{Email: "ada@example.com", Name: "Ada", Role: model.RoleAdmin})
		is.NotError(t, err)

		err = f(t.Context(), body)
		is.NotError(t, err)
		is.Equal(t, 1, len(sender.sent))
		is.Equal(t, "Ada", sender.sent[0].name)
		is.Equal(t, model.EmailAddress("ada@example.com"), sender.sent[0].email)
		is.Equal(t, "welcome", sender.sent[0].template)
		is.Equal(t, "Admin", sender.sent[0].keywords["role"])
	})

	t.Run("uses the local part of the address when there is no name", func(t *testing.T) {
		sender := &fakeSender{}
		f := jobs.SendWelcomeEmail(nil, sender)

		err := f(t.Context(), []byte(`{"email":"ada@example.com"}`))
		is.NotError(t, err)
		is.Equal(t, "ada", sender.sent[0].name)
	})

	t.Run("skips without a sender", func(t *testing.T) {
		f := jobs.SendWelcomeEmail(nil, nil)

		err := f(t.Context(), []byte(`{"email":"ada@example.com"}`))
		is.NotError(t, err)
	})

	t.Run("returns sender errors so the job is retried", func(t *testing.T) {
		expectedErr := errors.New("oh no")
		f := jobs.SendWelcomeEmail(nil, &fakeSender{err: expectedErr})

		err := f(t.Context(), []byte(`{"email":"ada@example.com"}`))
		is.Error(t, expectedErr, err)
	})

	t.Run("errors on garbage", func(t *testing.T) {
		f := jobs.SendWelcomeEmail(nil, &fakeSender{})

		err := f(t.Context(), []byte(`nope`))
		is.True(t, err != nil)
	})
}

func TestCreateUserCreated(t *testing.T) {
	t.Run("enqueues a job without the password", func(t *testing.T) {
		h := sqlitetest.NewHelper(t)

		err := jobs.CreateUserCreated(t.Context(), h.JobsQ, jobs.UserCreatedMessage{Email: "ada@example.com", Name: "Ada"})
		is.NotError(t, err)

		m, err := h.JobsQ.Receive(t.Context())
		is.NotError(t, err)
		is.NotNil(t, m)
		is.True(t, len(m.Body) > 0)

		var count int
		err = h.Get(t.Context(), &count, `select count(*) from goqite where queue = 'jobs'`)
		is.NotError(t, err)
		is.Equal(t, 1, count)
	})
}
