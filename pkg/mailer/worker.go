package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrPermanent marks a job that will never succeed; it should be dropped, not requeued.
var ErrPermanent = errors.New("permanent email failure")

// RenderFunc renders a named template into subject, text and html.
type RenderFunc func(name string, data any) (subject, text, html string, err error)

// Worker turns queued EmailJob payloads into sent mail.
type Worker struct {
	Sender      Sender
	Render      RenderFunc
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Handle decodes and sends one job. Errors wrapping ErrPermanent mean the payload itself is bad.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode job: %v", ErrPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: job has no recipient", ErrPermanent)
	}
	if job.Template == "" && (job.Subject == "" || (job.Text == "" && job.HTML == "")) {
		return fmt.Errorf("%w: either template or subject with text/html is required", ErrPermanent)
	}

	subject, text, html, err := Render(job, w.Render)
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	}
	return nil
}
