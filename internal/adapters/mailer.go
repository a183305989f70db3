package adapters

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/VictorCainj/doc-forge-audit/internal"
	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

type MailRepo struct {
	cfg *config.MailConfig
}

// NewSmtpMailRepo creates a new MailRepo instance.
func NewSmtpMailRepo(cfg config.MailConfig) MailRepo {
	return MailRepo{cfg: &cfg}
}

// Send sends a mail using SMTP.
func (r MailRepo) Send(_ context.Context, subject, body string, to []string, options *domain.MailOptions) error {
	if options == nil {
		options = &domain.MailOptions{}
	}
	r.setDefaultOptions(r.cfg.From, options)

	if len(to) == 0 {
		return errors.New("missing email recipient")
	}

	uniqueTo := internal.UniqueStringSlice(to)
	email := mail.NewMSG()
	email.SetFrom(r.cfg.From).
		AddTo(uniqueTo...).
		SetReplyTo(options.ReplyTo).
		SetSubject(subject).
		SetBody(mail.TextPlain, body)

	if len(options.Cc) > 0 {
		// the underlying mail library does not allow the same address to appear in TO and CC
		email.AddCc(removeContained(internal.UniqueStringSlice(options.Cc), uniqueTo)...)
	}
	if len(options.Bcc) > 0 {
		bcc := removeContained(internal.UniqueStringSlice(options.Bcc), uniqueTo)
		bcc = removeContained(bcc, options.Cc)
		email.AddBcc(bcc...)
	}
	if options.HtmlBody != "" {
		email.AddAlternative(mail.TextHTML, options.HtmlBody)
	}

	srv := r.getMailServer()
	client, err := srv.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	err = email.Send(client)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (r MailRepo) setDefaultOptions(sender string, options *domain.MailOptions) {
	if options.ReplyTo == "" {
		options.ReplyTo = sender
	}
}

func (r MailRepo) getMailServer() *mail.SMTPServer {
	srv := mail.NewSMTPClient()

	srv.ConnectTimeout = 30 * time.Second
	srv.SendTimeout = 30 * time.Second
	srv.Host = r.cfg.Host
	srv.Port = r.cfg.Port
	srv.Username = r.cfg.Username
	srv.Password = r.cfg.Password

	switch r.cfg.Encryption {
	case config.MailEncryptionTLS:
		srv.Encryption = mail.EncryptionSSLTLS
	case config.MailEncryptionStartTLS:
		srv.Encryption = mail.EncryptionSTARTTLS
	default: // MailEncryptionNone
		srv.Encryption = mail.EncryptionNone
	}
	srv.TLSConfig = &tls.Config{ServerName: srv.Host, InsecureSkipVerify: !r.cfg.CertValidation}
	switch r.cfg.AuthType {
	case config.MailAuthPlain:
		srv.Authentication = mail.AuthPlain
	case config.MailAuthLogin:
		srv.Authentication = mail.AuthLogin
	case config.MailAuthCramMD5:
		srv.Authentication = mail.AuthCRAMMD5
	}

	return srv
}

// removeContained removes addresses from the given slice which are contained in the remove slice.
func removeContained(slice []string, remove []string) []string {
	result := make([]string, 0, len(slice))

outer:
	for _, address := range slice {
		for _, other := range remove {
			if address == other {
				continue outer
			}
		}
		result = append(result, address)
	}
	return result
}
