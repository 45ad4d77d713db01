package session

// Format describes one output format of the exporter.
type Format struct {
	Name        string `json:"name"`
	AliasFor    string `json:"alias_for,omitempty"`
	Supported   bool   `json:"is_supported"`
	Description string `json:"description"`
	Extension   string `json:"file_extension"`
}

// DefaultFormat is the format preselected in the UI.
const DefaultFormat = "text"

// BuiltinFormats is the format list used when the exporter cannot describe
// its own.
func BuiltinFormats() []Format {
	return []Format{
		{Name: "text", Supported: true, Extension: "txt", Description: "Plain text links, one per line."},
		{Name: "rtf", Supported: true, Extension: "rtf", Description: "RTF for WordPad or Word."},
		{Name: "rtf-simple", Supported: true, Extension: "rtf", Description: "RTF with simpler formatting and smaller files."},
		{Name: "html", Supported: true, Extension: "html", Description: "HTML for a web browser."},
		{Name: "pdf", AliasFor: "typst-pdf", Supported: true, Extension: "pdf", Description: "PDF for a browser or PDF viewer."},
		{Name: "markdown", Supported: true, Extension: "md", Description: "Markdown for comments and READMEs."},
		{Name: "typst", Supported: true, Extension: "typ", Description: "Typst document source."},
		{Name: "typst-pdf", Supported: true, Extension: "pdf", Description: "PDF generated with Typst."},
	}
}

// SupportedFormats drops formats the exporter reports as unsupported.
func SupportedFormats(formats []Format) []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		if f.Supported {
			out = append(out, f)
		}
	}
	return out
}

// FindFormat looks a format up by name.
func FindFormat(formats []Format, name string) (Format, bool) {
	for _, f := range formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}
