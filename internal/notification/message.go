package notification

// Supported content and integrity enumerations. Anything else is
// rejected at validation time.
const (
	EncodingBase64 = "base64"
	MethodSHA512   = "sha512"
)

// Message is a validated data-availability notification. Instances are
// only produced by a successful Validator pass; downstream stages trust
// the fields without re-checking structure.
type Message struct {
	// RelPath is the relative file path the notification describes.
	// Only its final segment becomes the output filename.
	RelPath string `json:"relPath"`
	// BaseURL is the download prefix when the content is not inline.
	BaseURL string `json:"baseUrl,omitempty"`
	// Size is the declared byte length of the file.
	Size int64 `json:"size"`
	// Content carries the inline payload, when present.
	Content *Content `json:"content,omitempty"`
	// Integrity declares the digest the retrieved bytes must match.
	Integrity Integrity `json:"integrity"`
}

// Content is an inline payload embedded in the notification.
type Content struct {
	Encoding string `json:"encoding"`
	Value    string `json:"value"`
}

// Integrity declares the digest algorithm and expected value.
type Integrity struct {
	Method string `json:"method"`
	Value  string `json:"value"`
}

// Inline reports whether the file bytes are embedded in the message.
func (m *Message) Inline() bool {
	return m.Content != nil
}

// FetchURL builds the download location for remote content. The broker
// producers emit baseUrl and relPath as directly concatenable halves,
// so no normalization is applied.
func (m *Message) FetchURL() string {
	return m.BaseURL + m.RelPath
}
