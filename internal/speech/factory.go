package speech

import "fmt"

// New creates a recognizer for the configured engine.
// EngineNone yields a nil recognizer, which callers treat as
// "speech recognition disabled".
func New(config Config) (Recognizer, error) {
	switch config.Engine {
	case EngineWhisperAPI:
		return NewWhisperAPI(config.APIKey)
	case EngineNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown speech engine: %s", config.Engine)
	}
}
