package help

import (
	"strings"
	"testing"
)

func TestQUICKREFNonEmpty(t *testing.T) {
	if len(QUICKREF) == 0 {
		t.Fatal("QUICKREF is empty")
	}
}

func TestQUICKREFListsTopics(t *testing.T) {
	for _, topic := range TopicList {
		if !strings.Contains(QUICKREF, topic) {
			t.Errorf("QUICKREF does not mention topic %q", topic)
		}
	}
}

func TestTopicListMatchesTopics(t *testing.T) {
	for _, name := range TopicList {
		if _, ok := Topics[name]; !ok {
			t.Errorf("TopicList entry %q not in Topics map", name)
		}
	}
	if len(Topics) != len(TopicList) {
		t.Errorf("expected %d topics, got %d", len(TopicList), len(Topics))
	}
}

func TestTopicsNonEmpty(t *testing.T) {
	for name, content := range Topics {
		if len(content) == 0 {
			t.Errorf("topic %q has empty content", name)
		}
	}
}

func TestMatchTopicExact(t *testing.T) {
	name, content, err := MatchTopic("syntax")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "syntax" {
		t.Errorf("expected name 'syntax', got %q", name)
	}
	if content == "" {
		t.Error("expected non-empty content")
	}
}

func TestMatchTopicPrefix(t *testing.T) {
	tests := map[string]string{
		"diag": "diagnostics",
		"ex":   "examples",
		"b":    "builtins",
		"FO":   "forms",
		"co":   "config",
	}
	for query, want := range tests {
		name, _, err := MatchTopic(query)
		if err != nil {
			t.Errorf("MatchTopic(%q): %v", query, err)
			continue
		}
		if name != want {
			t.Errorf("MatchTopic(%q) = %q, want %q", query, name, want)
		}
	}
}

func TestMatchTopicUnknown(t *testing.T) {
	for _, q := range []string{"nonexistent", "", "  "} {
		if _, _, err := MatchTopic(q); err == nil {
			t.Errorf("MatchTopic(%q): expected error", q)
		}
	}
}

func TestMatchTopicAmbiguous(t *testing.T) {
	// forms and format share the prefix "f"
	Topics["format"] = "temporary"
	TopicList = append(TopicList, "format")
	defer func() {
		delete(Topics, "format")
		TopicList = TopicList[:len(TopicList)-1]
	}()
	_, _, err := MatchTopic("f")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguous error, got %v", err)
	}
}

func TestBuiltinIndex(t *testing.T) {
	idx := BuiltinIndex()
	for _, name := range []string{"log", "input", "pow", "index", "lte"} {
		if !strings.Contains(idx, name) {
			t.Errorf("BuiltinIndex missing %s", name)
		}
	}
	if !strings.Contains(idx, "Total: 19 functions") {
		t.Errorf("BuiltinIndex should report 19 functions, got:\n%s", idx)
	}
}

func TestMatchTopicAllExact(t *testing.T) {
	for _, topic := range TopicList {
		name, content, err := MatchTopic(topic)
		if err != nil {
			t.Errorf("MatchTopic(%q) error: %v", topic, err)
			continue
		}
		if name != topic {
			t.Errorf("MatchTopic(%q) returned name %q", topic, name)
		}
		if content == "" {
			t.Errorf("MatchTopic(%q) returned empty content", topic)
		}
	}
}
