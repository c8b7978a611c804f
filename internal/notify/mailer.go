// Package notify sends the booking mails over SMTP.
package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-gomail/gomail"

	"github.com/iliyamo/exam-appointment-booking/internal/config"
	"github.com/iliyamo/exam-appointment-booking/internal/i18n"
	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// AttachmentName is the file name of the confirmation PDF in the mail.
const AttachmentName = "confirmation_rdv.pdf"

// Mailer delivers verification codes and confirmations.  Each send is
// bounded by the caller's context: once it ends the SMTP session is cut
// and the message is not delivered.
type Mailer struct {
	from        string
	defaultLang string
	send        func(ctx context.Context, msgs ...*gomail.Message) error
}

// NewMailer returns a Mailer relaying through the SMTP server of cfg.
func NewMailer(cfg config.MailConfig, defaultLang string) *Mailer {
	return &Mailer{from: cfg.From, defaultLang: defaultLang, send: newSMTPTransport(cfg).send}
}

// SendCode mails the verification code in the booking's language.
func (m *Mailer) SendCode(ctx context.Context, b model.Booking, code string, expiresAt time.Time) error {
	t := i18n.Resolve(b.Lang, m.defaultLang)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", b.Email)
	msg.SetHeader("Subject", t.EmailSubject)
	msg.SetBody("text/plain", t.CodeMail(code))
	if err := m.deliver(ctx, msg); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// SendConfirmation mails the confirmation PDF.
func (m *Mailer) SendConfirmation(ctx context.Context, a *model.Appointment, lang string, pdf []byte) error {
	t := i18n.Resolve(lang, m.defaultLang)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", a.Email)
	msg.SetHeader("Subject", t.ConfirmationSubject)
	msg.SetBody("text/plain", t.ConfirmationBody)
	msg.Attach(AttachmentName,
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}))
	if err := m.deliver(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

func (m *Mailer) deliver(ctx context.Context, msg *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.send(ctx, msg)
}
