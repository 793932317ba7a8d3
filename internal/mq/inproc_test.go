package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestInprocBusDispatchesSynchronously(t *testing.T) {
	bus := NewInprocBus(zap.NewNop())

	var got []string
	bus.Subscribe("lead.captured", func(_ context.Context, raw json.RawMessage) error {
		var p LeadCapturedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		got = append(got, "first:"+p.Email)
		return nil
	})
	bus.Subscribe("lead.captured", func(_ context.Context, raw json.RawMessage) error {
		got = append(got, "second")
		return nil
	})

	err := bus.Publish("lead.captured", LeadCapturedPayload{Email: "lee@example.com"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Both handlers ran before Publish returned.
	if len(got) != 2 || got[0] != "first:lee@example.com" || got[1] != "second" {
		t.Fatalf("handler calls = %v", got)
	}
}

func TestInprocBusHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInprocBus(zap.NewNop())

	var secondRan bool
	bus.Subscribe("lead.captured", func(context.Context, json.RawMessage) error {
		return errors.New("boom")
	})
	bus.Subscribe("lead.captured", func(context.Context, json.RawMessage) error {
		secondRan = true
		return nil
	})

	if err := bus.Publish("lead.captured", LeadCapturedPayload{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !secondRan {
		t.Fatal("handler error stopped later subscribers")
	}
}

func TestInprocBusIgnoresUnknownKey(t *testing.T) {
	bus := NewInprocBus(zap.NewNop())
	if err := bus.Publish("no.subscribers", LeadCapturedPayload{}); err != nil {
		t.Fatalf("publish with no subscribers: %v", err)
	}
}
