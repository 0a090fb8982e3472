// server/filesystem/loader.go
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinizap/portfolio/server/domain"
)

const (
	DateLayout         = "Jan 2, 2006"
	DefaultImagePrefix = "/data/blogs"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Result is the outcome of one scan. Cause is nil when Posts came from disk
// and holds the failure when Posts is the fallback sequence.
type Result struct {
	Posts []domain.Post
	Cause error
}

func (r Result) FallbackUsed() bool { return r.Cause != nil }

// Loader scans a Content Store root. It keeps no state between calls, so one
// Loader can be shared by concurrent requests.
type Loader struct {
	Root        string
	ImagePrefix string
	Location    *time.Location
	Fallback    []domain.Post
}

func NewLoader(root string, fallback []domain.Post) *Loader {
	return &Loader{
		Root:        root,
		ImagePrefix: DefaultImagePrefix,
		Location:    time.Local,
		Fallback:    fallback,
	}
}

// Load scans the root and returns every parsed post, or the fallback posts if
// any filesystem operation fails along the way.
func (l *Loader) Load() Result {
	posts, err := l.scan()
	if err != nil {
		return l.FallbackResult(err)
	}
	return Result{Posts: posts}
}

// FallbackResult returns the fallback posts tagged with cause.
func (l *Loader) FallbackResult(cause error) Result {
	posts := make([]domain.Post, len(l.Fallback))
	copy(posts, l.Fallback)
	return Result{Posts: posts, Cause: cause}
}

func (l *Loader) scan() ([]domain.Post, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, fmt.Errorf("listing content root: %w", err)
	}

	posts := make([]domain.Post, 0, len(entries))
	id := 1
	for _, entry := range entries {
		dir := filepath.Join(l.Root, entry.Name())
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if !info.IsDir() {
			continue
		}

		post, ok, err := l.ReadPost(dir, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		posts = append(posts, post)
		id++
	}

	return posts, nil
}

// ReadPost builds the post stored in dir. ok is false when dir holds no text
// file.
func (l *Loader) ReadPost(dir string, id int) (domain.Post, bool, error) {
	folder := filepath.Base(dir)

	files, err := os.ReadDir(dir)
	if err != nil {
		return domain.Post{}, false, fmt.Errorf("listing %s: %w", folder, err)
	}

	var textFile, imageFile string
	for _, f := range files {
		name := f.Name()
		if textFile == "" && strings.HasSuffix(name, ".txt") {
			textFile = name
		}
		if imageFile == "" && imageExts[strings.ToLower(filepath.Ext(name))] {
			imageFile = name
		}
	}
	if textFile == "" {
		return domain.Post{}, false, nil
	}

	textPath := filepath.Join(dir, textFile)
	data, err := os.ReadFile(textPath)
	if err != nil {
		return domain.Post{}, false, fmt.Errorf("reading %s/%s: %w", folder, textFile, err)
	}
	info, err := os.Stat(textPath)
	if err != nil {
		return domain.Post{}, false, fmt.Errorf("stat %s/%s: %w", folder, textFile, err)
	}

	parsed := ParseText(string(data))

	post := domain.Post{
		ID:      id,
		Title:   parsed.Title,
		Date:    info.ModTime().In(l.location()).Format(DateLayout),
		Excerpt: parsed.Excerpt,
		Content: parsed.Content,
	}
	if !parsed.HasTitle() {
		post.Title = TitleFromFolder(folder)
	}
	if parsed.HasSubtitle() {
		subtitle := parsed.Subtitle
		post.Subtitle = &subtitle
	}
	if imageFile != "" {
		image := l.ImagePrefix + "/" + folder + "/" + imageFile
		post.Image = &image
	}

	return post, true, nil
}

func (l *Loader) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}
