package mailer

import (
	"strings"
	"testing"

	"renovatrack/internal/model"
	"renovatrack/internal/mq"
)

func TestDripTemplateKnownSteps(t *testing.T) {
	for _, step := range []model.DripStep{
		model.StepWelcome,
		model.StepDay2Portfolio,
		model.StepDay5Consultation,
	} {
		subject, html, ok := DripTemplate(step, "Lee")
		if !ok {
			t.Fatalf("step %q not recognized", step)
		}
		if subject == "" {
			t.Fatalf("step %q has empty subject", step)
		}
		if !strings.Contains(html, "Hi Lee,") {
			t.Fatalf("step %q body does not greet by name: %q", step, html)
		}
	}
}

func TestDripTemplateNameFallback(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, html, ok := DripTemplate(model.StepWelcome, name)
		if !ok {
			t.Fatal("welcome step not recognized")
		}
		if !strings.Contains(html, "Hi there,") {
			t.Fatalf("blank name %q did not fall back: %q", name, html)
		}
	}
}

func TestDripTemplateUnknownStep(t *testing.T) {
	if _, _, ok := DripTemplate("day99_reminder", "Lee"); ok {
		t.Fatal("unknown step rendered a template")
	}
}

func TestLeadNotificationIncludesDetails(t *testing.T) {
	subject, html := LeadNotification(mq.LeadCapturedPayload{
		Name:        "Lee Park",
		Email:       "lee@example.com",
		ProjectType: "bathroom",
	})
	if !strings.Contains(subject, "Lee Park") {
		t.Fatalf("subject %q missing lead name", subject)
	}
	for _, want := range []string{"lee@example.com", "bathroom"} {
		if !strings.Contains(html, want) {
			t.Fatalf("body missing %q: %q", want, html)
		}
	}
}
