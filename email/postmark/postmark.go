package postmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"maragu.dev/errors"

	"github.com/glue-apps/dashboard/email"
	"github.com/glue-apps/dashboard/model"
)

const transactionalMessageStream = "outbound"

// nameAndEmail combo, of the form "Name <email@example.com>"
type nameAndEmail = string

// Sender sends transactional emails through Postmark.
// See https://postmarkapp.com/developer
type Sender struct {
	baseURL     string
	client      *http.Client
	emails      fs.FS
	endpointURL string
	from        nameAndEmail
	key         string
	log         *slog.Logger
	replyTo     nameAndEmail
}

type NewSenderOptions struct {
	// BaseURL of the dashboard, available to templates as {{baseURL}}.
	BaseURL          string
	Emails           fs.FS
	EndpointURL      string
	FromEmailAddress model.EmailAddress
	FromEmailName    string
	Key              string
	Log              *slog.Logger
	// ReplyToEmailAddress is optional, and the from address is used if it's empty.
	ReplyToEmailAddress model.EmailAddress
	ReplyToEmailName    string
}

func NewSender(opts NewSenderOptions) *Sender {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	if opts.EndpointURL == "" {
		opts.EndpointURL = "https://api.postmarkapp.com/email"
	}

	if opts.Emails == nil {
		opts.Emails = email.GetTemplates()
	}

	if opts.ReplyToEmailAddress == "" {
		opts.ReplyToEmailAddress = opts.FromEmailAddress
		opts.ReplyToEmailName = opts.FromEmailName
	}

	return &Sender{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		client:      &http.Client{Timeout: 3 * time.Second},
		emails:      opts.Emails,
		endpointURL: strings.TrimSuffix(opts.EndpointURL, "/"),
		from:        createNameAndEmail(opts.FromEmailName, opts.FromEmailAddress),
		key:         opts.Key,
		log:         opts.Log,
		replyTo:     createNameAndEmail(opts.ReplyToEmailName, opts.ReplyToEmailAddress),
	}
}

// SendTransactional email to name and email, using the named template with keywords replaced.
func (s *Sender) SendTransactional(ctx context.Context, name string, email model.EmailAddress, subject, preheader, template string, kw model.Keywords) error {
	// Keywords that are always included, without changing the caller's map
	keywords := maps.Clone(kw)
	if keywords == nil {
		keywords = model.Keywords{}
	}
	keywords["baseURL"] = s.baseURL
	keywords["subject"] = subject

	body, err := getEmail(s.emails, template, preheader, keywords)
	if err != nil {
		return err
	}

	return s.sendRequest(ctx, requestBody{
		MessageStream: transactionalMessageStream,
		From:          s.from,
		ReplyTo:       s.replyTo,
		To:            createNameAndEmail(name, email),
		Subject:       subject,
		HtmlBody:      body,
	})
}

// requestBody used in [Sender.sendRequest].
// See https://postmarkapp.com/developer/user-guide/send-email-with-api
type requestBody struct {
	MessageStream string
	From          nameAndEmail
	To            nameAndEmail
	ReplyTo       nameAndEmail
	Subject       string
	TextBody      string
	HtmlBody      string
}

type postmarkResponse struct {
	ErrorCode int
	Message   string
}

// sendRequest to the Postmark API.
func (s *Sender) sendRequest(ctx context.Context, body requestBody) error {
	bodyAsBytes, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "error marshalling request body to json")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpointURL, bytes.NewReader(bodyAsBytes))
	if err != nil {
		return errors.Wrap(err, "error creating request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", s.key)

	res, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "error making request")
	}
	defer func() {
		_ = res.Body.Close()
	}()
	bodyAsBytes, err = io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "error reading response body")
	}

	// https://postmarkapp.com/developer/api/overview#response-codes
	if res.StatusCode == http.StatusUnprocessableEntity {
		var r postmarkResponse
		if err := json.Unmarshal(bodyAsBytes, &r); err != nil {
			return errors.Wrap(err, "error unwrapping postmark error response body")
		}

		// https://postmarkapp.com/developer/api/overview#error-codes
		switch r.ErrorCode {
		case 406:
			s.log.Info("Not sending email, recipient is inactive", "recipient", body.To)
			return nil
		default:
			s.log.Error("Error sending email, got error code", "error code", r.ErrorCode, "message", r.Message)
			return errors.Newf("error sending email, got error code %v", r.ErrorCode)
		}
	}

	if res.StatusCode >= 300 {
		s.log.Info("Error sending email, got http status code", "status code", res.StatusCode, "body", string(bodyAsBytes))
		return errors.Newf("error sending email, got http status code %v", res.StatusCode)
	}

	return nil
}

// createNameAndEmail returns a name and email string ready for inserting into From and To fields.
func createNameAndEmail(name string, email model.EmailAddress) nameAndEmail {
	return fmt.Sprintf("%v <%v>", name, email.ToLower())
}

// getEmail from the given template path, put into the layout, with keywords replaced.
// Email preheader text should be between 40-130 characters long.
func getEmail(emails fs.FS, path, preheader string, keywords model.Keywords) (string, error) {
	emailBody, err := fs.ReadFile(emails, path+".html")
	if err != nil {
		return "", errors.Wrap(err, "error reading email template %v", path)
	}

	layout, err := fs.ReadFile(emails, "layout.html")
	if err != nil {
		return "", errors.Wrap(err, "error reading email layout")
	}

	email := string(layout)
	email = strings.ReplaceAll(email, "{{preheader}}", preheader)
	email = strings.ReplaceAll(email, "{{body}}", string(emailBody))
	email = strings.ReplaceAll(email, "{{unsubscribe}}", "")

	for keyword, replacement := range keywords {
		email = strings.ReplaceAll(email, "{{"+keyword+"}}", replacement)
	}

	return email, nil
}

var _ email.Sender = (*Sender)(nil)
