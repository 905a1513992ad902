package algorithms

import "testing"

func TestExtractKeyPhrasesFromDocuments(t *testing.T) {
	docs := []string{
		"Rust memory safety is important for systems programming",
		"Memory management in Rust prevents common bugs",
		"Systems programming requires careful memory handling",
	}
	phrases := ExtractKeyPhrases(docs, 5)
	if len(phrases) == 0 {
		t.Fatal("expected non-empty key phrases")
	}
	found := false
	for _, p := range phrases {
		if p.Term == "memory" {
			found = true
		}
	}
	if !found {
		t.Error("expected \"memory\" among top phrases since it appears in every document")
	}
}

func TestExtractKeyPhrasesEmptyDocuments(t *testing.T) {
	if phrases := ExtractKeyPhrases(nil, 5); phrases != nil {
		t.Errorf("expected nil for no documents, got %v", phrases)
	}
}

func TestExtractKeyPhrasesRespectsLimit(t *testing.T) {
	docs := []string{"one two three four five six seven eight nine ten"}
	phrases := ExtractKeyPhrases(docs, 3)
	if len(phrases) > 3 {
		t.Errorf("expected at most 3 phrases, got %d", len(phrases))
	}
}
