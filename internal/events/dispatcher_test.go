package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishReachesSubscribersByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var policyEvents, rosterEvents []Event
	d.Subscribe(EventPolicyMutated, func(_ context.Context, e Event) error {
		policyEvents = append(policyEvents, e)
		return nil
	})
	d.Subscribe(EventRosterMutated, func(_ context.Context, e Event) error {
		rosterEvents = append(rosterEvents, e)
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventPolicyMutated, Operation: "create", StaffID: "E1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(policyEvents) != 1 || policyEvents[0].Operation != "create" {
		t.Fatalf("policy subscriber saw: %+v", policyEvents)
	}
	if len(rosterEvents) != 0 {
		t.Fatalf("roster subscriber received a policy event")
	}
}

func TestPublishContinuesPastHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventPolicyMutated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventPolicyMutated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventPolicyMutated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !reached {
		t.Fatalf("handler error stopped delivery")
	}
}
