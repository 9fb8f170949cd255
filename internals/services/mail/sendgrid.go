package mail

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

func NewSendgridMailer(key, fromName, fromEmail string) *SendgridMailer {
	return &SendgridMailer{key: key, from: sgmail.NewEmail(fromName, fromEmail)}
}

func (s *SendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Email))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if !msg.HasRecipients() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sendgrid request")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
