package a2a

// Artifact is a produced output other than conversational text,
// addressable by id. Name/Description are optional human-facing labels;
// MimeType is an optional top-level hint (e.g. when every part shares it).
type Artifact struct {
	ID          string         `json:"id"`
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	MimeType    string         `json:"mimeType,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func NewTextArtifact(id, text string) Artifact {
	return Artifact{
		ID:       id,
		MimeType: "text/plain",
		Parts:    []Part{NewTextPart(text)},
	}
}

func NewJSONArtifact(id string, structured map[string]any) Artifact {
	return Artifact{
		ID:       id,
		MimeType: "application/json",
		Parts:    []Part{NewDataPart("application/json", structured)},
	}
}
