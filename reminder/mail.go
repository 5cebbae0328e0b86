package reminder

import "github.com/eduagenda/eduagenda/utils"

// MailSink adapts the SMTP mailer to the Sink interface. Delivery is one
// attempt per digest; SMTP-level retries, if any, belong to the transport.
type MailSink struct{}

func (MailSink) Send(to, subject, text, html string) error {
	return utils.SendMail(to, subject, text, html)
}
