// server/domain/portfolio.go
package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type SectionID string

const (
	SectionHero       SectionID = "hero"
	SectionTOC        SectionID = "toc"
	SectionAbout      SectionID = "about"
	SectionPhilosophy SectionID = "philosophy"
	SectionExperience SectionID = "experience"
	SectionProcess    SectionID = "process"
	SectionProjects   SectionID = "projects"
	SectionNextSteps  SectionID = "next-steps"
	SectionContact    SectionID = "contact"
)

// SectionIDs lists every section the home page knows how to render, in page order.
var SectionIDs = []SectionID{
	SectionHero,
	SectionTOC,
	SectionAbout,
	SectionPhilosophy,
	SectionExperience,
	SectionProcess,
	SectionProjects,
	SectionNextSteps,
	SectionContact,
}

func (id SectionID) Valid() bool {
	for _, known := range SectionIDs {
		if id == known {
			return true
		}
	}
	return false
}

type Portfolio struct {
	Header   Header    `json:"header" yaml:"header"`
	Sections []Section `json:"sections" yaml:"sections"`
}

type Header struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	Year string `json:"year" yaml:"year"`
}

// Section is the union of every field a home page section may carry. Unused
// fields are omitted from JSON.
type Section struct {
	ID          SectionID `json:"id" yaml:"id"`
	Type        string    `json:"type,omitempty" yaml:"type"`
	Title       string    `json:"title,omitempty" yaml:"title"`
	Subtitle    string    `json:"subtitle,omitempty" yaml:"subtitle"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Intro       string    `json:"intro,omitempty" yaml:"intro"`
	Content     *Content  `json:"content,omitempty" yaml:"content"`
	Items       []TOCItem `json:"items,omitempty" yaml:"items"`
	Jobs        []Job     `json:"jobs,omitempty" yaml:"jobs"`
	Steps       []Step    `json:"steps,omitempty" yaml:"steps"`
	Details     []string  `json:"details,omitempty" yaml:"details"`
}

type TOCItem struct {
	Num  string `json:"num" yaml:"num"`
	Text string `json:"text" yaml:"text"`
}

type Job struct {
	Role string `json:"role" yaml:"role"`
	Desc string `json:"desc" yaml:"desc"`
}

type Step struct {
	Title string `json:"title" yaml:"title"`
	Desc  string `json:"desc" yaml:"desc"`
}

// Content is either a single line of text or a list of paragraphs. It keeps
// whichever shape it was declared with when encoded back to JSON.
type Content struct {
	Text       string
	Paragraphs []string
}

func (c *Content) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&c.Text)
	case yaml.SequenceNode:
		c.Paragraphs = []string{}
		return node.Decode(&c.Paragraphs)
	default:
		return fmt.Errorf("line %d: content must be a string or a list of strings", node.Line)
	}
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Paragraphs != nil {
		return json.Marshal(c.Paragraphs)
	}
	return json.Marshal(c.Text)
}
