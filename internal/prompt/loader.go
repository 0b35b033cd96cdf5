package prompt

import (
	"github.com/Conceptual-Machines/music-track-generator/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetTrackPromptTemplate loads the generation prompt template.
// Whitespace is kept as-is since the rendered layout depends on it.
func (l *Loader) GetTrackPromptTemplate() (string, error) {
	return string(embedded.TrackPromptTmpl), nil
}
