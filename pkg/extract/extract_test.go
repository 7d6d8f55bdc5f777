package extract

import (
	"strings"
	"testing"
)

func TestIngredientsFromImage(t *testing.T) {
	raw, ingredients, err := IngredientsFromImage("/tmp/uploads/scans/abc123.jpg")
	if err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if !strings.Contains(raw, "abc123.jpg") {
		t.Fatalf("raw text %q does not reference the image", raw)
	}
	if len(ingredients) == 0 {
		t.Fatal("empty ingredient list")
	}
}

func TestResultIsCopied(t *testing.T) {
	_, a, _ := IngredientsFromImage("x.jpg")
	a[0] = "mutated"
	_, b, _ := IngredientsFromImage("x.jpg")
	if b[0] == "mutated" {
		t.Fatal("callers share the placeholder slice")
	}
}
