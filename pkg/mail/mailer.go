// Package mail delivers match notifications over SMTP. A notification is the
// final pipeline stage: an HTML summary of the match plus the tailored cover
// letter attached as a PDF.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// ErrAuth marks SMTP credential rejections so callers can tell a bad app
// password apart from a transient delivery failure.
var ErrAuth = errors.New("smtp authentication rejected")

const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
)

const attachmentName = "Cover_Letter.pdf"

// Dialer sends assembled messages. gomail's dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Renderer turns a cover letter into PDF bytes.
type Renderer interface {
	RenderCoverLetterPDF(ctx context.Context, applicant, letter string) ([]byte, error)
}

// MatchEmail is everything needed to notify a user about one matched job.
type MatchEmail struct {
	Recipient     string
	ApplicantName string
	JobTitle      string
	Company       string
	JobURL        string
	MatchScore    int
	Suggestions   string
	CoverLetter   string
}

// SendResult reports what happened to a notification. Status is "sent" or
// "skipped"; a skip carries the reason and is not an error.
type SendResult struct {
	Status    string `json:"status"`
	Recipient string `json:"recipient,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type Config struct {
	Host     string
	Port     int
	From     string
	Password string

	Renderer  Renderer
	Logger    *zap.Logger
	NewDialer func(host string, port int, username, password string) Dialer
}

type Mailer struct {
	host     string
	port     int
	from     string
	password string

	renderer  Renderer
	log       *zap.Logger
	newDialer func(host string, port int, username, password string) Dialer
}

func NewMailer(cfg Config) *Mailer {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	newDialer := cfg.NewDialer
	if newDialer == nil {
		newDialer = func(host string, port int, username, password string) Dialer {
			return gomail.NewDialer(host, port, username, password)
		}
	}
	return &Mailer{
		host:      cfg.Host,
		port:      cfg.Port,
		from:      cfg.From,
		password:  cfg.Password,
		renderer:  cfg.Renderer,
		log:       log,
		newDialer: newDialer,
	}
}

// Configured reports whether SMTP credentials were provided.
func (m *Mailer) Configured() bool {
	return m.from != "" && m.password != ""
}

// SendMatchEmail sends the match notification. Without SMTP credentials it
// returns a skipped result instead of failing, so the pipeline can finish a
// job as scored rather than errored. A cover letter PDF that fails to render
// only costs the attachment, never the email.
func (m *Mailer) SendMatchEmail(ctx context.Context, em MatchEmail) (*SendResult, error) {
	if !m.Configured() {
		m.log.Warn("smtp credentials missing, skipping notification",
			zap.String("recipient", em.Recipient))
		return &SendResult{Status: StatusSkipped, Reason: "SMTP credentials not configured"}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pdf []byte
	if m.renderer != nil && em.CoverLetter != "" {
		b, err := m.renderer.RenderCoverLetterPDF(ctx, em.ApplicantName, em.CoverLetter)
		if err != nil {
			m.log.Warn("cover letter render failed, sending without attachment", zap.Error(err))
		} else {
			pdf = b
		}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", em.Recipient)
	msg.SetHeader("Subject", fmt.Sprintf("🎯 %d%% Match – %s at %s | ResumeFlow AI",
		em.MatchScore, em.JobTitle, em.Company))
	msg.SetBody("text/html", buildMatchBody(em, len(pdf) > 0))
	if len(pdf) > 0 {
		msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}))
	}

	if err := m.newDialer(m.host, m.port, m.from, m.password).DialAndSend(msg); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) && (tpErr.Code == 534 || tpErr.Code == 535) {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return nil, fmt.Errorf("send notification to %s: %w", em.Recipient, err)
	}

	m.log.Info("match notification sent",
		zap.String("recipient", em.Recipient),
		zap.String("job_title", em.JobTitle),
		zap.Int("score", em.MatchScore))
	return &SendResult{Status: StatusSent, Recipient: em.Recipient}, nil
}
