package export

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func renderXML(rootName string, files []File, opts Options) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, "<repository name=\"%s\">\n", escapeAttr(rootName))

	if opts.TreeView != "" {
		b.WriteString("  <file_structure>")
		writeCDATA(&b, opts.TreeView)
		b.WriteString("</file_structure>\n")
	}

	b.WriteString("  <files>\n")
	for _, file := range files {
		if opts.ShowTokenCount {
			fmt.Fprintf(&b, "    <file path=\"%s\" tokens=\"%d\">", escapeAttr(file.Path), file.Tokens)
		} else {
			fmt.Fprintf(&b, "    <file path=\"%s\">", escapeAttr(file.Path))
		}
		writeCDATA(&b, file.Content)
		b.WriteString("</file>\n")
	}
	b.WriteString("  </files>\n")
	b.WriteString("</repository>\n")

	return b.String()
}

// writeCDATA emits content as one or more CDATA sections. A literal "]]>"
// inside the content would terminate the section early, so it is split
// across a section boundary; parsing the result reproduces the content
// exactly.
func writeCDATA(b *strings.Builder, content string) {
	content = sanitizeXML(content)
	b.WriteString("<![CDATA[")
	b.WriteString(strings.ReplaceAll(content, "]]>", "]]]]><![CDATA[>"))
	b.WriteString("]]>")
}

// escapeAttr escapes the characters XML forbids in attribute values.
func escapeAttr(s string) string {
	s = sanitizeXML(s)
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}

// sanitizeXML strips characters invalid in XML 1.0: C0 controls other
// than tab/newline/CR, and malformed byte sequences (which would decode
// as unpaired surrogates) become the replacement character.
func sanitizeXML(s string) string {
	if isCleanXML(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			i++
			continue
		}
		if validXMLChar(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func isCleanXML(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if !validXMLChar(r) {
			return false
		}
		i += size
	}
	return true
}

func validXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
