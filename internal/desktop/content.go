package desktop

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind selects which content renderer a window mounts.
type Kind string

const (
	KindFinder   Kind = "finder"
	KindFolder   Kind = "folder"
	KindFile     Kind = "file"
	KindMarkdown Kind = "markdown"
	KindProjects Kind = "projects"
	KindBlog     Kind = "blog"
	KindResume   Kind = "resume"
)

// ErrUnknownKind is returned when decoding content with an unrecognised kind.
var ErrUnknownKind = errors.New("unknown content kind")

// Kinds returns every content kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindFinder, KindFolder, KindFile, KindMarkdown, KindProjects, KindBlog, KindResume}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFinder, KindFolder, KindFile, KindMarkdown, KindProjects, KindBlog, KindResume:
		return true
	}
	return false
}

// Navigable reports whether windows of this kind keep a drill-down history.
func (k Kind) Navigable() bool {
	switch k {
	case KindFinder, KindFolder, KindProjects, KindBlog:
		return true
	}
	return false
}

// Content is the typed payload handed to a content renderer. The set of
// implementations is closed to this package.
type Content interface {
	Kind() Kind
	isContent()
}

// FinderContent browses the virtual file tree starting at FolderID.
type FinderContent struct {
	FolderID string `json:"folder_id,omitempty"`
}

// FolderContent shows the children of a single folder.
type FolderContent struct {
	FolderID string `json:"folder_id"`
}

// FileContent shows a single file.
type FileContent struct {
	FileID   string `json:"file_id"`
	FileType string `json:"file_type,omitempty"`
}

// MarkdownContent renders a markdown document, either fetched from FilePath or
// given inline as Body.
type MarkdownContent struct {
	FilePath  string `json:"file_path,omitempty"`
	Body      string `json:"body,omitempty"`
	ShowTitle bool   `json:"show_title,omitempty"`
}

// ProjectsContent lists portfolio projects from a JSON index.
type ProjectsContent struct {
	ListPath  string `json:"list_path"`
	ShowTitle bool   `json:"show_title,omitempty"`
}

// BlogContent lists blog posts from a JSON index.
type BlogContent struct {
	ListPath  string `json:"list_path"`
	ShowTitle bool   `json:"show_title,omitempty"`
}

// ResumeContent renders the built-in resume.
type ResumeContent struct{}

func (FinderContent) Kind() Kind   { return KindFinder }
func (FolderContent) Kind() Kind   { return KindFolder }
func (FileContent) Kind() Kind     { return KindFile }
func (MarkdownContent) Kind() Kind { return KindMarkdown }
func (ProjectsContent) Kind() Kind { return KindProjects }
func (BlogContent) Kind() Kind     { return KindBlog }
func (ResumeContent) Kind() Kind   { return KindResume }

func (FinderContent) isContent()   {}
func (FolderContent) isContent()   {}
func (FileContent) isContent()     {}
func (MarkdownContent) isContent() {}
func (ProjectsContent) isContent() {}
func (BlogContent) isContent()     {}
func (ResumeContent) isContent()   {}

type envelope struct {
	Kind  Kind            `json:"kind"`
	Props json.RawMessage `json:"props,omitempty"`
}

// MarshalContent encodes c as {"kind": ..., "props": {...}}.
func MarshalContent(c Content) ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	props, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s props: %w", c.Kind(), err)
	}
	return json.Marshal(envelope{Kind: c.Kind(), Props: props})
}

// UnmarshalContent decodes the envelope produced by MarshalContent. Unknown
// props fields are rejected.
func UnmarshalContent(data []byte) (Content, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	return decodeProps(env.Kind, env.Props)
}

// NewContent builds content of the given kind from raw JSON props.
func NewContent(kind Kind, props json.RawMessage) (Content, error) {
	return decodeProps(kind, props)
}

func decodeProps(kind Kind, props json.RawMessage) (Content, error) {
	var c Content
	switch kind {
	case KindFinder:
		var v FinderContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	case KindFolder:
		var v FolderContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	case KindFile:
		var v FileContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	case KindMarkdown:
		var v MarkdownContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	case KindProjects:
		var v ProjectsContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	case KindBlog:
		var v BlogContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	case KindResume:
		var v ResumeContent
		if err := strictDecode(props, &v); err != nil {
			return nil, fmt.Errorf("%s props: %w", kind, err)
		}
		c = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return c, nil
}

func strictDecode(data json.RawMessage, out any) error {
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// ContentJSON wraps a Content so it can sit in JSON-encoded structs.
type ContentJSON struct {
	Content Content
}

// MarshalJSON implements json.Marshaler.
func (c ContentJSON) MarshalJSON() ([]byte, error) {
	return MarshalContent(c.Content)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ContentJSON) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		c.Content = nil
		return nil
	}
	content, err := UnmarshalContent(data)
	if err != nil {
		return err
	}
	c.Content = content
	return nil
}
