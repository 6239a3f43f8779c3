package manifest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxLineBytes is the JAR manifest line limit, excluding the line terminator.
const maxLineBytes = 72

// Parse decodes manifest bytes. The first section is the main section;
// following sections are separated by blank lines. Lines starting with a
// single space continue the previous line.
func Parse(data []byte) (*Manifest, error) {
	m := New()
	target := m.Main
	var section *Section

	var name, value string
	pending := false
	flush := func() {
		if !pending {
			return
		}
		pending = false
		if section != nil && section.Name == "" && strings.EqualFold(name, "Name") {
			section.Name = value
			return
		}
		target.Set(name, value)
	}

	for i, line := range splitLines(data) {
		switch {
		case line == "":
			flush()
			if section != nil {
				m.Sections = append(m.Sections, *section)
				section = nil
			}
			target = nil
		case strings.HasPrefix(line, " "):
			if !pending {
				return nil, fmt.Errorf("line %d: continuation without attribute", i+1)
			}
			value += line[1:]
		default:
			flush()
			n, v, ok := splitAttr(line)
			if !ok {
				return nil, fmt.Errorf("line %d: malformed attribute %q", i+1, line)
			}
			if target == nil {
				section = &Section{Attrs: NewAttributes()}
				target = section.Attrs
			}
			name, value = n, v
			pending = true
		}
	}
	flush()
	if section != nil {
		m.Sections = append(m.Sections, *section)
	}

	return m, nil
}

// splitAttr splits "Name: value". An attribute with an empty value may omit
// the trailing space.
func splitAttr(line string) (string, string, bool) {
	if idx := strings.Index(line, ": "); idx > 0 {
		return line[:idx], line[idx+2:], true
	}
	if strings.HasSuffix(line, ":") && len(line) > 1 && !strings.Contains(line[:len(line)-1], ":") {
		return line[:len(line)-1], "", true
	}
	return "", "", false
}

// splitLines splits on CRLF, LF or CR and drops a trailing empty line.
func splitLines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Encode renders the manifest with CRLF line ends and 72-byte line wrapping.
// Manifest-Version is written first when present, as the JAR format expects.
func (m *Manifest) Encode() []byte {
	var buf bytes.Buffer

	if v, ok := m.Main.Get(AttrManifestVersion); ok {
		writeAttr(&buf, AttrManifestVersion, v)
	}
	for _, n := range m.Main.Names() {
		if strings.EqualFold(n, AttrManifestVersion) {
			continue
		}
		v, _ := m.Main.Get(n)
		writeAttr(&buf, n, v)
	}
	buf.WriteString("\r\n")

	for _, s := range m.Sections {
		writeAttr(&buf, "Name", s.Name)
		for _, n := range s.Attrs.Names() {
			v, _ := s.Attrs.Get(n)
			writeAttr(&buf, n, v)
		}
		buf.WriteString("\r\n")
	}

	return buf.Bytes()
}

// writeAttr writes one "Name: value" line, wrapping it so no physical line
// exceeds maxLineBytes. Wrapping never splits a UTF-8 sequence.
func writeAttr(buf *bytes.Buffer, name, value string) {
	line := name + ": " + value
	limit := maxLineBytes
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		buf.WriteString(line[:cut])
		buf.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineBytes - 1
	}
	buf.WriteString(line)
	buf.WriteString("\r\n")
}
