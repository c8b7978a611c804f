package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/go-gomail/gomail"

	"github.com/iliyamo/exam-appointment-booking/internal/config"
)

// smtpTransport runs one SMTP session per send on a connection bound to
// the caller's context.  When the context ends the connection deadline is
// pulled in, so an unfinished DATA is never completed afterwards.
type smtpTransport struct {
	host     string
	port     int
	username string
	password string
	ssl      bool
	dialer   net.Dialer
}

func newSMTPTransport(cfg config.MailConfig) *smtpTransport {
	return &smtpTransport{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		ssl:      cfg.SSL || cfg.Port == 465,
	}
}

func (s *smtpTransport) send(ctx context.Context, msgs ...*gomail.Message) (err error) {
	raw, err := s.dialer.DialContext(ctx, "tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return err
	}
	defer raw.Close()
	stop := context.AfterFunc(ctx, func() { _ = raw.SetDeadline(time.Unix(1, 0)) })
	defer stop()
	defer func() {
		if err != nil && ctx.Err() != nil {
			err = ctx.Err()
		}
	}()

	tlsCfg := &tls.Config{ServerName: s.host}
	conn := raw
	if s.ssl {
		conn = tls.Client(raw, tlsCfg)
	}
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if !s.ssl {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return err
			}
		}
	}
	if s.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
				return err
			}
		}
	}

	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, addr := range to {
			if err := c.Rcpt(addr); err != nil {
				return err
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := msg.WriteTo(w); err != nil {
			return errors.Join(err, w.Close())
		}
		return w.Close()
	})
	if err := gomail.Send(sender, msgs...); err != nil {
		return err
	}
	return c.Quit()
}
