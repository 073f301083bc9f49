package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	linkPattern    = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	angleEscaper   = strings.NewReplacer("<", `\<`, ">", `\>`)
)

// PlainText renders markdown-formatted feedback as a single line of plain text
// for prompting. Link text is kept and link targets are dropped. Angle
// brackets are escaped before rendering so tag-like words such as <button>
// survive as text, and a heading needs a space after its hashes so "#1" stays.
func PlainText(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	input = angleEscaper.Replace(input)

	rendered := blackfriday.Run([]byte(input), blackfriday.WithExtensions(blackfriday.SpaceHeadings))
	text := html.UnescapeString(htmlTagPattern.ReplaceAllString(string(rendered), " "))

	return strings.Join(strings.Fields(text), " ")
}
