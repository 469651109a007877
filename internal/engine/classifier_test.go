package engine

import (
	"errors"
	"testing"
	"time"
)

func TestClassifier_AuthorizedIncrementsOnlyAuthorized(t *testing.T) {
	c := NewClassifier(NewAllowList("client-a"))

	verdict, err := c.Classify(PacketEvent{Sender: "client-a", SizeBytes: 1024, At: time.Second})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if verdict != VerdictAuthorized {
		t.Errorf("expected authorized verdict, got %s", verdict)
	}
	got := c.Counters()
	if got.Authorized != 1 || got.Unauthorized != 0 || got.Received != 1 {
		t.Errorf("unexpected counters: %+v", got)
	}
}

func TestClassifier_UnknownSenderIsUnauthorized(t *testing.T) {
	c := NewClassifier(NewAllowList("client-a"))

	verdict, err := c.Classify(PacketEvent{Sender: "rogue", SizeBytes: 512})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if verdict != VerdictUnauthorized {
		t.Errorf("expected unauthorized verdict, got %s", verdict)
	}
	got := c.Counters()
	if got.Authorized != 0 || got.Unauthorized != 1 || got.Received != 1 {
		t.Errorf("unexpected counters: %+v", got)
	}
}

func TestClassifier_ReceivedCountsEveryClassifiedPacket(t *testing.T) {
	c := NewClassifier(NewAllowList("client-a"))
	events := []PacketEvent{
		{Sender: "client-a", SizeBytes: 1024},
		{Sender: "rogue", SizeBytes: 512},
		{Sender: "client-a", SizeBytes: 1024},
	}
	for _, ev := range events {
		if _, err := c.Classify(ev); err != nil {
			t.Fatalf("Classify(%+v) returned error: %v", ev, err)
		}
	}
	got := c.Counters()
	if got.Authorized != 2 || got.Unauthorized != 1 || got.Received != 3 {
		t.Errorf("unexpected counters: %+v", got)
	}
}

func TestClassifier_AlternateRenderingStillAuthorized(t *testing.T) {
	c := NewClassifier(NewAllowList("Client-A"))
	verdict, err := c.Classify(PacketEvent{Sender: " client-a ", SizeBytes: 64})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if verdict != VerdictAuthorized {
		t.Errorf("expected normalized sender to be authorized, got %s", verdict)
	}
}

func TestClassifier_MalformedEventsLeaveCountersUntouched(t *testing.T) {
	c := NewClassifier(NewAllowList("client-a"))
	cases := []struct {
		name string
		ev   PacketEvent
	}{
		{"missing sender", PacketEvent{SizeBytes: 100}},
		{"blank sender", PacketEvent{Sender: "   ", SizeBytes: 100}},
		{"negative size", PacketEvent{Sender: "client-a", SizeBytes: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Classify(tc.ev); !errors.Is(err, ErrMalformedEvent) {
				t.Fatalf("expected ErrMalformedEvent, got %v", err)
			}
		})
	}
	if got := c.Counters(); got != (Counters{}) {
		t.Errorf("expected zero counters after malformed events, got %+v", got)
	}
}
