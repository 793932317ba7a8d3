package mailer

import (
	"fmt"
	"strings"

	"renovatrack/internal/model"
	"renovatrack/internal/mq"
)

// DripTemplate renders one step of the drip sequence, substituting the
// subscriber's first name.
func DripTemplate(step model.DripStep, firstName string) (subject, html string, ok bool) {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}

	switch step {
	case model.StepWelcome:
		return "Welcome! Here's what to expect from your remodeling journey",
			fmt.Sprintf(`<p>Hi %s,</p>
<p>Thanks for reaching out about your remodeling project. We'll review your
request and get back to you within one business day.</p>
<p>In the meantime, feel free to reply to this email with any questions.</p>`, name),
			true
	case model.StepDay2Portfolio:
		return "See what we've built for homeowners like you",
			fmt.Sprintf(`<p>Hi %s,</p>
<p>We wanted to share a few recent projects from our portfolio: kitchens,
bathrooms, and full-home remodels completed on time and on budget.</p>
<p>Take a look and imagine what your space could become.</p>`, name),
			true
	case model.StepDay5Consultation:
		return "Ready for a free consultation?",
			fmt.Sprintf(`<p>Hi %s,</p>
<p>It's been a few days since you reached out. If you're still planning your
remodel, we'd love to set up a free consultation and walk through your ideas,
timeline, and budget together.</p>
<p>Reply to this email or give us a call to pick a time.</p>`, name),
			true
	}
	return "", "", false
}

// Admin notification templates for business events.

func LeadNotification(p mq.LeadCapturedPayload) (subject, html string) {
	subject = fmt.Sprintf("New lead: %s", p.Name)
	html = fmt.Sprintf(`<h2>New lead captured</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Project type:</strong> %s</p>
<p><strong>Message:</strong> %s</p>`,
		p.Name, p.Email, p.Phone, p.ProjectType, p.Message)
	return subject, html
}

func EstimateNotification(p mq.EstimateRequestedPayload) (subject, html string) {
	subject = fmt.Sprintf("New estimate request: %s", p.Name)
	html = fmt.Sprintf(`<h2>New estimate request</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Project type:</strong> %s</p>
<p><strong>Budget range:</strong> %s</p>
<p><strong>Timeline:</strong> %s</p>
<p><strong>Description:</strong> %s</p>`,
		p.Name, p.Email, p.ProjectType, p.BudgetRange, p.Timeline, p.Description)
	return subject, html
}

func MessageNotification(p mq.MessageReceivedPayload) (subject, html string) {
	subject = fmt.Sprintf("New message: %s", p.Subject)
	html = fmt.Sprintf(`<h2>New contact message</h2>
<p><strong>From:</strong> %s (%s)</p>
<p><strong>Subject:</strong> %s</p>
<p>%s</p>`,
		p.Name, p.Email, p.Subject, p.Body)
	return subject, html
}
