package embedding

import "testing"

func TestTokenize(t *testing.T) {
	tok := &SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tok.Tokenize("hello world", 16)

	if len(inputIDs) != 16 || len(attentionMask) != 16 || len(tokenTypeIDs) != 16 {
		t.Fatalf("lengths = %d/%d/%d, want 16", len(inputIDs), len(attentionMask), len(tokenTypeIDs))
	}
	if inputIDs[0] != tokenCLS {
		t.Errorf("first token = %d, want CLS (%d)", inputIDs[0], tokenCLS)
	}
	if inputIDs[3] != tokenSEP {
		t.Errorf("token after words = %d, want SEP (%d)", inputIDs[3], tokenSEP)
	}
	if attentionMask[0] != 1 || attentionMask[1] != 1 || attentionMask[2] != 1 || attentionMask[3] != 1 {
		t.Error("attention mask must cover CLS, words, and SEP")
	}
	if attentionMask[4] != 0 {
		t.Error("padding must not be attended")
	}
	for i, v := range tokenTypeIDs {
		if v != 0 {
			t.Errorf("tokenTypeIDs[%d] = %d, want 0 for single-segment input", i, v)
		}
	}
}

func TestTokenize_deterministic(t *testing.T) {
	tok := &SimpleTokenizer{}
	a1, _, _ := tok.Tokenize("machine learning", 32)
	a2, _, _ := tok.Tokenize("machine learning", 32)
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatalf("tokenization not deterministic at %d: %d vs %d", i, a1[i], a2[i])
		}
	}
}

func TestTokenize_truncation(t *testing.T) {
	tok := &SimpleTokenizer{}
	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	inputIDs, _, _ := tok.Tokenize(long, 8)
	if len(inputIDs) != 8 {
		t.Fatalf("len = %d, want 8", len(inputIDs))
	}
	if inputIDs[7] != tokenSEP {
		t.Errorf("last slot = %d, want SEP after truncation", inputIDs[7])
	}
}

func TestTokenizePair(t *testing.T) {
	tok := &SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tok.TokenizePair("what is go", "go is a language", 32)

	if inputIDs[0] != tokenCLS {
		t.Errorf("first token = %d, want CLS", inputIDs[0])
	}
	// [CLS] what is go [SEP] → SEP at position 4.
	if inputIDs[4] != tokenSEP {
		t.Errorf("segment separator = %d at 4, want SEP", inputIDs[4])
	}
	for i := 0; i <= 4; i++ {
		if tokenTypeIDs[i] != 0 {
			t.Errorf("tokenTypeIDs[%d] = %d, want 0 in first segment", i, tokenTypeIDs[i])
		}
	}
	// Second segment: 4 words + SEP at positions 5..9, all type 1.
	for i := 5; i <= 9; i++ {
		if tokenTypeIDs[i] != 1 {
			t.Errorf("tokenTypeIDs[%d] = %d, want 1 in second segment", i, tokenTypeIDs[i])
		}
		if attentionMask[i] != 1 {
			t.Errorf("attentionMask[%d] = %d, want 1", i, attentionMask[i])
		}
	}
	if inputIDs[9] != tokenSEP {
		t.Errorf("final token = %d, want SEP", inputIDs[9])
	}
	if attentionMask[10] != 0 {
		t.Error("padding after final SEP must not be attended")
	}
}

func TestHashString(t *testing.T) {
	if HashString("abc") != HashString("abc") {
		t.Error("hash must be deterministic")
	}
	if HashString("abc") == HashString("abd") {
		t.Error("different strings should hash differently")
	}
	if HashString("") < 0 {
		t.Error("hash must be non-negative")
	}
}
