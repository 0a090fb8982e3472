// server/filesystem/parser.go
package filesystem

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const excerptLength = 150

var (
	titleLine    = regexp.MustCompile(`(?m)^TITLE[ \t]*-[ \t]*(.+?)$`)
	subtitleLine = regexp.MustCompile(`(?m)^SUBTITLE[ \t]*-[ \t]*(.+?)$`)
	blankRuns    = regexp.MustCompile(`\n\n+`)
)

// Parsed holds the fields extracted from a post's text file.
type Parsed struct {
	Title    string
	Subtitle string
	Content  string
	Excerpt  string
}

func (p Parsed) HasTitle() bool    { return p.Title != "" }
func (p Parsed) HasSubtitle() bool { return p.Subtitle != "" }

// ParseText pulls the "TITLE - " and "SUBTITLE - " lines out of text and
// normalizes what remains into the post body.
func ParseText(text string) Parsed {
	var p Parsed
	content := strings.ReplaceAll(text, "\r\n", "\n")

	p.Title, content = extractLine(titleLine, content)
	p.Subtitle, content = extractLine(subtitleLine, content)

	content = strings.TrimSpace(content)
	content = blankRuns.ReplaceAllString(content, "\n\n")

	p.Content = content
	p.Excerpt = excerpt(content)
	return p
}

// extractLine removes the first line matching re and returns its captured
// value. The line break after the match stays in place.
func extractLine(re *regexp.Regexp, content string) (string, string) {
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", content
	}
	value := strings.TrimSpace(content[loc[2]:loc[3]])
	return value, content[:loc[0]] + content[loc[1]:]
}

func excerpt(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	if utf8.RuneCountInString(first) <= excerptLength {
		return first
	}
	runes := []rune(first)
	return string(runes[:excerptLength])
}

// TitleFromFolder turns a folder name like "my-cool_post" into "my cool post".
func TitleFromFolder(name string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}
