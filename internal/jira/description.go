package jira

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Jira Cloud returns issue descriptions either as a plain string (possibly
// HTML from older renderers) or as an Atlassian Document Format tree.
// FlattenDescription reduces both to plain text for prompt building.
func FlattenDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.Contains(s, "<") && strings.Contains(s, ">") {
			return htmlToText(s)
		}
		return strings.TrimSpace(s)
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return strings.TrimSpace(doc.text())
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

// text walks the ADF tree depth-first, joining block-level nodes with
// newlines and inline nodes directly.
func (n adfNode) text() string {
	if n.Type == "text" {
		return n.Text
	}
	if n.Type == "hardBreak" {
		return "\n"
	}

	var parts []string
	for _, child := range n.Content {
		if t := child.text(); t != "" {
			parts = append(parts, t)
		}
	}

	sep := ""
	switch n.Type {
	case "doc", "bulletList", "orderedList":
		sep = "\n"
	case "paragraph", "heading", "listItem", "blockquote", "codeBlock":
		sep = ""
	}
	joined := strings.Join(parts, sep)

	switch n.Type {
	case "paragraph", "heading", "listItem", "codeBlock":
		return joined + "\n"
	}
	return joined
}

func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
