package domain

import (
	"errors"
	"testing"
	"time"
)

func validMessage() MessageEvent {
	return MessageEvent{
		ID:        "m1",
		GuildID:   "g1",
		ChannelID: "c1",
		AuthorID:  "u1",
		Content:   "hello",
		Timestamp: time.Now(),
	}
}

func TestMessageEvent_Validate(t *testing.T) {
	if err := validMessage().Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	// Empty content is legitimate (attachment-only messages).
	ev := validMessage()
	ev.Content = ""
	if err := ev.Validate(); err != nil {
		t.Fatalf("empty content must be valid: %v", err)
	}

	mutations := []func(*MessageEvent){
		func(e *MessageEvent) { e.ID = "" },
		func(e *MessageEvent) { e.GuildID = "" },
		func(e *MessageEvent) { e.ChannelID = "" },
		func(e *MessageEvent) { e.AuthorID = "" },
		func(e *MessageEvent) { e.Timestamp = time.Time{} },
	}
	for i, mutate := range mutations {
		ev := validMessage()
		mutate(&ev)
		if err := ev.Validate(); !errors.Is(err, ErrMalformedEvent) {
			t.Fatalf("mutation %d: expected ErrMalformedEvent, got %v", i, err)
		}
	}
}

func TestMemberJoinEvent_Validate(t *testing.T) {
	ok := MemberJoinEvent{GuildID: "g1", UserID: "u1"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid join rejected: %v", err)
	}
	if err := (MemberJoinEvent{UserID: "u1"}).Validate(); !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("missing guild must be malformed")
	}
	if err := (MemberJoinEvent{GuildID: "g1"}).Validate(); !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("missing user must be malformed")
	}
}
