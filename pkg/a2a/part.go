package a2a

/*
Part is a discriminated union over Text, File and Data parts.  Exactly one
of Text, File, or Data is populated according to Type; this is not
enforced at the struct level, matching the wire representation. Valid
checks that the field matching Type is populated; it does not check that
the other two are empty.
*/
type Part struct {
	Type PartType `json:"type"`

	Text string         `json:"text,omitempty"`
	File *FilePart      `json:"file,omitempty"`
	Data map[string]any `json:"data,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// PartType is the discriminator for a Part union.
type PartType string

const (
	PartTypeText PartType = "text"
	PartTypeFile PartType = "file"
	PartTypeData PartType = "data"
)

// FilePart carries a URI reference or inline bytes, mime type and optional
// name/size metadata.
type FilePart struct {
	Name     *string `json:"name,omitempty"`
	MimeType string  `json:"mimeType,omitempty"`
	Size     *int64  `json:"size,omitempty"`
	Bytes    string  `json:"bytes,omitempty"`
	URI      string  `json:"uri,omitempty"`
}

func NewTextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

func NewFilePart(uri, mimeType string) Part {
	return Part{Type: PartTypeFile, File: &FilePart{URI: uri, MimeType: mimeType}}
}

func NewDataPart(mimeType string, data map[string]any) Part {
	return Part{Type: PartTypeData, Data: data, Metadata: map[string]any{"mimeType": mimeType}}
}

// Valid reports whether the part carries content consistent with its
// declared Type.
func (p Part) Valid() bool {
	switch p.Type {
	case PartTypeText:
		return p.Text != ""
	case PartTypeFile:
		return p.File != nil && (p.File.URI != "" || p.File.Bytes != "") && p.File.MimeType != ""
	case PartTypeData:
		return len(p.Data) > 0
	default:
		return false
	}
}
