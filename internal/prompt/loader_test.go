package prompt

import (
	"strings"
	"testing"
)

func TestNewPromptLoader(t *testing.T) {
	loader := NewPromptLoader()
	if loader == nil {
		t.Fatal("NewPromptLoader() returned nil")
	}
}

func TestGetTrackPromptTemplate(t *testing.T) {
	loader := NewPromptLoader()
	content, err := loader.GetTrackPromptTemplate()

	if err != nil {
		t.Fatalf("GetTrackPromptTemplate() returned error: %v", err)
	}

	if content == "" {
		t.Fatal("GetTrackPromptTemplate() returned empty string")
	}

	for _, placeholder := range []string{"{{.Genre}}", "{{.Structure}}", "{{.TextInput}}", "{{.StyleBlock}}", "{{.Temperature}}"} {
		if !strings.Contains(content, placeholder) {
			t.Errorf("GetTrackPromptTemplate() is missing %s", placeholder)
		}
	}

	if !strings.HasSuffix(content, "\n") {
		t.Error("GetTrackPromptTemplate() lost its trailing newline")
	}
}
