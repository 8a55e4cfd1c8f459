package notify

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio/internal/dom"
)

// Messages shown under the contact form
const (
	MessageSuccess = "Thank you! Your message has been sent successfully."
	MessageFailure = "Oops! Something went wrong. Please try again."

	classSuccess = "form-message success"
	classFailure = "form-message error"

	labelSending = "Sending..."
	labelIdle    = "Send Message"
)

// Submitter delivers contact form fields
type Submitter interface {
	Submit(ctx context.Context, fields []dom.Field) error
}

// ContactForm drives #contactForm: it submits through a Submitter and
// reflects progress and outcome in the page.
type ContactForm struct {
	doc    *dom.Document
	relay  Submitter
	logger *slog.Logger
}

// NewContactForm returns a controller for doc's contact form
func NewContactForm(doc *dom.Document, relay Submitter, logger *slog.Logger) *ContactForm {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactForm{doc: doc, relay: relay, logger: logger}
}

// Bind intercepts submit events on #contactForm. Submission runs inside the
// dispatch and is bounded by ctx. It reports whether the form exists.
func (f *ContactForm) Bind(ctx context.Context) bool {
	form, ok := f.doc.Query("#contactForm")
	if !ok {
		return false
	}
	f.doc.On(form, dom.EventSubmit, func(ev *dom.Event) {
		ev.PreventDefault()
		f.Submit(ctx)
	})
	return true
}

// Submit sends the form's fields and reports whether the relay accepted them.
// The submit button is disabled for the duration and always restored.
func (f *ContactForm) Submit(ctx context.Context) bool {
	form, ok := f.doc.Query("#contactForm")
	if !ok {
		return false
	}
	btn := form.Find(`button[type="submit"]`).First()
	msg, _ := f.doc.Query("#formMessage")

	btn.SetAttr("disabled", "")
	f.doc.SetText(btn, labelSending)
	f.doc.SetText(msg, "")

	err := f.relay.Submit(ctx, dom.FormFields(form))
	if err == nil {
		f.show(msg, MessageSuccess, classSuccess)
		dom.ResetForm(form)
	} else {
		f.logger.Warn("contact submission failed", "error", err)
		f.show(msg, MessageFailure, classFailure)
	}

	btn.RemoveAttr("disabled")
	f.doc.SetText(btn, labelIdle)
	return err == nil
}

func (f *ContactForm) show(msg *goquery.Selection, text, class string) {
	f.doc.SetText(msg, text)
	msg.SetAttr("class", class)
}
