package xmltok

import "testing"

func TestScannerBasicSequence(t *testing.T) {
	data := []byte("<doc><title>Cats</title></doc>")
	s := New(data)

	var kinds []TokenKind
	var names []string
	var texts []string
	for {
		tok, ok, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		kinds = append(kinds, tok.Kind)
		names = append(names, tok.Name)
		if tok.Kind == Text {
			texts = append(texts, string(data[tok.Start:tok.End]))
		}
	}

	wantKinds := []TokenKind{ElementStart, ElementStart, Text, ElementEnd, ElementEnd}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("got %d tokens %v, want %d", len(kinds), kinds, len(wantKinds))
	}
	for i, k := range wantKinds {
		if kinds[i] != k {
			t.Errorf("token %d: got kind %v want %v", i, kinds[i], k)
		}
	}
	if len(texts) != 1 || texts[0] != "Cats" {
		t.Errorf("got text tokens %v, want [Cats]", texts)
	}
}

func TestScannerMalformedTagIsReported(t *testing.T) {
	data := []byte("<doc><title")
	s := New(data)

	var sawErr bool
	for {
		_, ok, err := s.Next()
		if err != nil {
			sawErr = true
			break
		}
		if !ok {
			break
		}
	}
	if !sawErr {
		t.Fatalf("expected a malformed-tag error")
	}
}

func TestScannerNamespacedLocalName(t *testing.T) {
	data := []byte("<ns:doc></ns:doc>")
	s := New(data)
	tok, ok, err := s.Next()
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v %v", tok, ok, err)
	}
	if tok.Name != "doc" {
		t.Errorf("got local name %q, want %q", tok.Name, "doc")
	}
}
