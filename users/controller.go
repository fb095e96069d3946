package users

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/glue-apps/dashboard/apiclient"
	"github.com/glue-apps/dashboard/model"
)

// DefaultFailureMessage is shown when creating a user fails and the API gives no reason.
const DefaultFailureMessage = "Failed to create user"

// Outcome of submitting a [model.Draft]: either a success with the created user exactly as the API
// returned it, or a failure with a message for the user.
type Outcome struct {
	created json.RawMessage
	err     error
	message string
	ok      bool
}

// Success with the created user.
func Success(created json.RawMessage) Outcome {
	return Outcome{created: created, ok: true}
}

// Failure with a message to show, caused by err.
func Failure(message string, err error) Outcome {
	return Outcome{err: err, message: message}
}

func (o Outcome) OK() bool {
	return o.ok
}

// Created user on success, nil otherwise.
func (o Outcome) Created() json.RawMessage {
	return o.created
}

// Message for the user on failure, empty otherwise.
func (o Outcome) Message() string {
	return o.message
}

// Err that caused a failure, nil on success.
func (o Outcome) Err() error {
	return o.err
}

type userCreator interface {
	CreateUser(ctx context.Context, token string, req model.CreateUserRequest) (json.RawMessage, error)
}

// Controller submits drafts to the API with a single admin's bearer token.
// Only one submission can be in flight at a time.
type Controller struct {
	busy    atomic.Bool
	creator userCreator
	log     *slog.Logger
	token   string
}

type NewControllerOptions struct {
	Creator userCreator
	Log     *slog.Logger
	// Token is the bearer token of the admin creating users.
	Token string
}

func NewController(opts NewControllerOptions) *Controller {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	return &Controller{
		creator: opts.Creator,
		log:     opts.Log,
		token:   opts.Token,
	}
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Submit the draft: validate it, and if it's valid, create the user through the API.
// A submission while another is in flight fails with [model.ErrorSubmissionInProgress] right away.
// Invalid drafts never reach the API.
func (c *Controller) Submit(ctx context.Context, d model.Draft) Outcome {
	if !c.busy.CompareAndSwap(false, true) {
		return Failure(model.ErrorSubmissionInProgress.Error(), model.ErrorSubmissionInProgress)
	}
	defer c.busy.Store(false)

	if err := model.ValidateDraft(d); err != nil {
		return Failure(err.Error(), err)
	}

	created, err := c.creator.CreateUser(ctx, c.token, d.Request())
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			c.log.Info("API refused to create user", "email", d.Email, "status code", apiErr.StatusCode, "message", apiErr.Message)
		} else {
			c.log.Info("Error creating user", "email", d.Email, "error", err)
		}
		return Failure(apiclient.UserMessage(err, DefaultFailureMessage), err)
	}

	c.log.Info("Created user", "email", d.Email, "role", d.Role)

	return Success(created)
}
