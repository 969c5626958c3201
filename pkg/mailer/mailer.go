package mailer

import (
	"fmt"
	"log"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer отправляет письма синхронно и сообщает результат вызывающему
type Mailer interface {
	Send(to, subject, body string) error
}

// SendgridMailer отправляет письма через Sendgrid API
type SendgridMailer struct {
	apiKey string
	from   *sgmail.Email
}

// NewSendgridMailer создает почтовый сервис на базе Sendgrid
func NewSendgridMailer(apiKey, fromEmail string) *SendgridMailer {
	return &SendgridMailer{
		apiKey: apiKey,
		from:   sgmail.NewEmail("ClassHub", fromEmail),
	}
}

// Send отправляет письмо одному получателю
func (m *SendgridMailer) Send(to, subject, body string) error {
	message := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), body, body)

	req := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(message)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}

// ConsoleMailer печатает письма в лог; используется при разработке,
// когда ключ Sendgrid не задан
type ConsoleMailer struct{}

// NewConsoleMailer создает консольный почтовый сервис
func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

// Send печатает письмо в лог
func (m *ConsoleMailer) Send(to, subject, body string) error {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}
