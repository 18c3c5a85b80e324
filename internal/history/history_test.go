package history

import (
	"context"
	"testing"
	"time"
)

func TestSaveAndListAnalyses(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	first, err := s.SaveAnalysis(ctx, Analysis{
		InputType:       "text",
		Label:           "Fake",
		FinalPrediction: "Real",
		Confidence:      0.64,
		Verified:        true,
		ContextID:       "ctx-1",
		CreatedAt:       time.Now().UTC().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	if first.ID == "" {
		t.Error("expected an id assigned")
	}

	_, err = s.SaveAnalysis(ctx, Analysis{
		InputType:       "url",
		Source:          "https://example.com/story",
		Label:           "Real",
		FinalPrediction: "Real",
		Confidence:      0.97,
	})
	if err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	entries, err := s.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].InputType != "url" || entries[1].InputType != "text" {
		t.Errorf("unexpected order: %s then %s", entries[0].InputType, entries[1].InputType)
	}
	if !entries[1].Verified || entries[1].FinalPrediction != "Real" {
		t.Errorf("unexpected entry: %+v", entries[1])
	}

	count, err := s.CountAnalyses(ctx)
	if err != nil {
		t.Fatalf("CountAnalyses: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestInvalidInputTypeRejected(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if _, err := s.SaveAnalysis(context.Background(), Analysis{
		InputType:       "carrier-pigeon",
		Label:           "Real",
		FinalPrediction: "Real",
	}); err == nil {
		t.Error("expected CHECK constraint to reject unknown input type")
	}
}

func TestChatMessagesOrderedByTime(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	base := time.Now().UTC()

	for i, turn := range []struct {
		role, content string
	}{
		{"assistant", "I've analyzed your news article"},
		{"user", "who wrote it?"},
		{"assistant", "the byline says Jane Doe"},
	} {
		_, err := s.SaveMessage(ctx, ChatRecord{
			ContextID: "ctx-1",
			Role:      turn.role,
			Content:   turn.content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	messages, err := s.MessagesForContext(ctx, "ctx-1")
	if err != nil {
		t.Fatalf("MessagesForContext: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != "assistant" || messages[1].Role != "user" {
		t.Errorf("unexpected order: %+v", messages)
	}

	other, err := s.MessagesForContext(ctx, "other")
	if err != nil {
		t.Fatalf("MessagesForContext: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no messages for unrelated context, got %d", len(other))
	}
}
