package version

import (
	"fmt"
	"testing"
)

func TestSemanticMatchesComponents(t *testing.T) {
	expected := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if Semantic != expected {
		t.Errorf("Semantic = %q, want %q", Semantic, expected)
	}
}
