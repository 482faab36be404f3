package services

import (
	"reflect"
	"testing"
)

func TestGenerateSystemTagsDropsStopwordsAndShortWords(t *testing.T) {
	tags := GenerateSystemTags(
		"Using AI to do the grading",
		"We use it for grading and grading only",
	)
	for _, tag := range tags {
		switch tag {
		case "the", "and", "use", "using", "ai", "to", "do", "we", "it", "for":
			t.Fatalf("got stopword %q in tags %v", tag, tags)
		}
	}
	if len(tags) == 0 || tags[0] != "grading" {
		t.Fatalf("got=%v want most frequent word first", tags)
	}
}

func TestGenerateSystemTagsCapsAtFive(t *testing.T) {
	tags := GenerateSystemTags(
		"alpha bravo charlie delta echo foxtrot golf",
		"hotel india juliet kilo lima",
	)
	if len(tags) != 5 {
		t.Fatalf("got=%d tags want=5", len(tags))
	}
}

func TestGenerateSystemTagsBreaksTiesAlphabetically(t *testing.T) {
	// Every word appears exactly once, so order is purely alphabetical.
	tags := GenerateSystemTags("zebra apple mango", "")
	want := []string{"apple", "mango", "zebra"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("got=%v want=%v", tags, want)
	}
}

func TestGenerateSystemTagsIsStable(t *testing.T) {
	first := GenerateSystemTags("Transcript summaries for lectures", "summaries of lecture transcripts")
	second := GenerateSystemTags("Transcript summaries for lectures", "summaries of lecture transcripts")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("got=%v and %v want identical output", first, second)
	}
}
