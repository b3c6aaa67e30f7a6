package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/folio/internal/desktop"
)

// contentRenderers mounts a text body for every content kind.
func contentRenderers() desktop.Dispatch {
	return desktop.Dispatch{
		desktop.KindFinder:   renderFinder,
		desktop.KindFolder:   renderFolder,
		desktop.KindFile:     renderFile,
		desktop.KindMarkdown: renderMarkdown,
		desktop.KindProjects: renderProjects,
		desktop.KindBlog:     renderBlog,
		desktop.KindResume:   renderResume,
	}
}

func renderFinder(w desktop.Window) (string, error) {
	c, ok := w.Content.(desktop.FinderContent)
	if !ok {
		return "", fmt.Errorf("finder: unexpected content %T", w.Content)
	}
	folder := c.FolderID
	if folder == "" {
		folder = "root"
	}
	return "Browsing " + folder + navHint(w), nil
}

func renderFolder(w desktop.Window) (string, error) {
	c, ok := w.Content.(desktop.FolderContent)
	if !ok {
		return "", fmt.Errorf("folder: unexpected content %T", w.Content)
	}
	return "Folder " + c.FolderID + navHint(w), nil
}

func renderFile(w desktop.Window) (string, error) {
	c, ok := w.Content.(desktop.FileContent)
	if !ok {
		return "", fmt.Errorf("file: unexpected content %T", w.Content)
	}
	typ := c.FileType
	if typ == "" {
		typ = "txt"
	}
	return fmt.Sprintf("File %s (%s)", c.FileID, typ), nil
}

func renderMarkdown(w desktop.Window) (string, error) {
	c, ok := w.Content.(desktop.MarkdownContent)
	if !ok {
		return "", fmt.Errorf("markdown: unexpected content %T", w.Content)
	}
	var sb strings.Builder
	if c.ShowTitle {
		sb.WriteString("# " + w.Title + "\n\n")
	}
	switch {
	case c.Body != "":
		sb.WriteString(c.Body)
	case c.FilePath != "":
		sb.WriteString("Document: " + c.FilePath)
	default:
		sb.WriteString("(empty document)")
	}
	return sb.String(), nil
}

func renderProjects(w desktop.Window) (string, error) {
	c, ok := w.Content.(desktop.ProjectsContent)
	if !ok {
		return "", fmt.Errorf("projects: unexpected content %T", w.Content)
	}
	return listing("Projects", w.Title, c.ListPath, c.ShowTitle) + navHint(w), nil
}

func renderBlog(w desktop.Window) (string, error) {
	c, ok := w.Content.(desktop.BlogContent)
	if !ok {
		return "", fmt.Errorf("blog: unexpected content %T", w.Content)
	}
	return listing("Posts", w.Title, c.ListPath, c.ShowTitle) + navHint(w), nil
}

func renderResume(w desktop.Window) (string, error) {
	return "Resume\n\nExperience · Education · Skills", nil
}

func listing(label, title, path string, showTitle bool) string {
	var sb strings.Builder
	if showTitle {
		sb.WriteString("# " + title + "\n\n")
	}
	sb.WriteString(label + " from " + path)
	return sb.String()
}

func navHint(w desktop.Window) string {
	var parts []string
	if w.History.CanBack() {
		parts = append(parts, "← back")
	}
	if w.History.CanForward() {
		parts = append(parts, "→ forward")
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(parts, "  ")
}
