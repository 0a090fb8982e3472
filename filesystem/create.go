// server/filesystem/create.go
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const postFileName = "post.txt"

var ErrPostExists = errors.New("post folder already has a text file")

// NewPost describes a post folder to scaffold in the Content Store.
type NewPost struct {
	Folder   string
	Title    string
	Subtitle string
	Body     string
}

// FormatText renders a post in the layout ParseText reads back.
func FormatText(p NewPost) string {
	var b strings.Builder
	if p.Title != "" {
		fmt.Fprintf(&b, "TITLE - %s\n", p.Title)
	}
	if p.Subtitle != "" {
		fmt.Fprintf(&b, "SUBTITLE - %s\n", p.Subtitle)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(p.Body))
	b.WriteString("\n")
	return b.String()
}

// CreatePost writes root/<folder>/post.txt and returns its path. An image can
// be dropped next to it afterwards.
func CreatePost(root string, p NewPost) (string, error) {
	folder := strings.TrimSpace(p.Folder)
	if folder == "" || folder != filepath.Base(folder) || strings.HasPrefix(folder, ".") {
		return "", fmt.Errorf("invalid post folder %q", p.Folder)
	}
	if strings.ContainsAny(p.Title, "\r\n") || strings.ContainsAny(p.Subtitle, "\r\n") {
		return "", errors.New("title and subtitle must be a single line")
	}

	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".txt") {
			return "", fmt.Errorf("%s: %w", folder, ErrPostExists)
		}
	}

	path := filepath.Join(dir, postFileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s: %w", folder, ErrPostExists)
		}
		return "", err
	}
	if _, err := f.WriteString(FormatText(p)); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
