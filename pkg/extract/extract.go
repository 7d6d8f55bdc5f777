// Package extract turns a stored label image into an ingredient list.
//
// The current implementation is a stand-in: it records that the image was
// received and returns a fixed ingredient set. The function signature is the
// seam where a real OCR/NLP engine plugs in.
package extract

import (
	"fmt"
	"path/filepath"
)

// placeholder result until a real extraction engine is wired in
var placeholderIngredients = []string{
	"water",
	"sugar",
	"natural flavors",
	"citric acid",
	"sodium benzoate",
}

// IngredientsFromImage returns the raw text read from the image and the
// extracted ingredient names. Never returns an empty ingredient list.
func IngredientsFromImage(path string) (rawText string, ingredients []string, err error) {
	rawText = fmt.Sprintf("[Image received: %s]", filepath.Base(path))
	out := make([]string, len(placeholderIngredients))
	copy(out, placeholderIngredients)
	return rawText, out, nil
}
