package embedded

import (
	_ "embed"
)

// TrackPromptTmpl is the text/template used to render generation prompts
//
//go:embed data/track_prompt.tmpl
var TrackPromptTmpl []byte
