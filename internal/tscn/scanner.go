package tscn

import (
	"strconv"
	"strings"
)

// --- Section scanner ---

// scanState is the explicit state of the line scanner. The scanner is always
// in exactly one of these; every transition happens on a section header line.
type scanState int

const (
	// stateSeeking is the resting state between sections.
	stateSeeking scanState = iota
	// stateHeader is active while a bracketed section header line is being
	// lexed into its tag and attributes.
	stateHeader
	// stateProperties accumulates `key = value` lines for the section that
	// owns them (a node or an inline sub_resource).
	stateProperties
)

// propTarget identifies which section the accumulated property lines belong to.
type propTarget int

const (
	targetNone propTarget = iota
	targetNode
	targetSub
)

type scanner struct {
	state  scanState
	doc    *SceneDocument
	target propTarget
	idx    int // index into doc.Nodes or doc.SubResources, per target
}

// Parse parses the full text of a .tscn/.scn file into an immutable
// SceneDocument. Empty input is not an error: it yields a document with every
// list empty and a default header. Any structural failure aborts the whole
// parse; no partial document is ever returned.
func Parse(text string) (*SceneDocument, error) {
	s := &scanner{
		state: stateSeeking,
		doc: &SceneDocument{
			Header:            SceneHeader{FormatVersion: DefaultFormatVersion},
			ExtResources:      []ExtResource{},
			SubResources:      []SubResource{},
			Nodes:             []SceneNode{},
			Connections:       []Connection{},
			EditableInstances: []EditableInstance{},
		},
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if err := s.handleHeader(line); err != nil {
				return nil, err
			}
			continue
		}

		// Join physical lines until bracket/paren nesting returns to zero so
		// multi-line array and record literals reach the value parser whole.
		var depth depthTracker
		depth.feed(line)
		logical := line
		for depth.open() {
			i++
			if i >= len(lines) {
				return nil, parseErrorf("unterminated value starting at %q", truncate(line))
			}
			depth.feed(lines[i])
			logical += "\n" + strings.TrimRight(lines[i], "\r")
		}
		if depth.unbalanced() {
			return nil, parseErrorf("unbalanced delimiters in %q", truncate(logical))
		}

		if err := s.handleProperty(logical); err != nil {
			return nil, err
		}
	}

	return s.doc, nil
}

// handleHeader lexes one `[tag attr=value ...]` line and transitions the
// scanner into the state the section implies.
func (s *scanner) handleHeader(line string) error {
	s.state = stateHeader

	tag, attrs, err := parseSectionHeader(line)
	if err != nil {
		return err
	}

	s.state = stateSeeking
	s.target = targetNone

	switch tag {
	case "gd_scene":
		return s.addHeader(attrs)
	case "ext_resource":
		s.doc.ExtResources = append(s.doc.ExtResources, ExtResource{
			ID:   attrs.take("id"),
			Type: attrs.take("type"),
			Path: attrs.take("path"),
		})
		return nil
	case "sub_resource":
		s.doc.SubResources = append(s.doc.SubResources, SubResource{
			ID:   attrs.take("id"),
			Type: attrs.take("type"),
		})
		s.state = stateProperties
		s.target = targetSub
		s.idx = len(s.doc.SubResources) - 1
		return nil
	case "node":
		return s.addNode(attrs)
	case "connection":
		return s.addConnection(attrs)
	case "editable":
		s.doc.EditableInstances = append(s.doc.EditableInstances, EditableInstance{
			Path: attrs.take("path"),
		})
		return nil
	default:
		// Unknown section tags are skipped, not rejected, so newer Godot
		// metadata does not break older tooling.
		return nil
	}
}

func (s *scanner) addHeader(attrs headerAttrs) error {
	format := attrs.take("format")
	if format == "" {
		return parseErrorf("gd_scene header missing required format attribute")
	}
	fv, err := strconv.Atoi(format)
	if err != nil || fv <= 0 {
		return parseErrorf("gd_scene format must be a positive integer, got %q", format)
	}

	s.doc.Header.FormatVersion = fv
	s.doc.Header.UID = attrs.take("uid")
	if ls := attrs.take("load_steps"); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil {
			return parseErrorf("gd_scene load_steps must be an integer, got %q", ls)
		}
		s.doc.Header.LoadSteps = n
	}
	if len(attrs) > 0 {
		s.doc.Header.Attrs = attrs.rest()
	}
	return nil
}

func (s *scanner) addNode(attrs headerAttrs) error {
	name := attrs.take("name")
	if name == "" {
		return parseErrorf("node section missing required name attribute")
	}

	node := SceneNode{
		Name:     name,
		Type:     attrs.take("type"),
		Parent:   attrs.take("parent"),
		Instance: attrs.take("instance"),
	}

	if groups := attrs.take("groups"); groups != "" {
		parsed, err := ParseValue(groups)
		if err != nil {
			return err
		}
		if parsed.Kind != KindArray {
			return parseErrorf("node groups attribute must be an array, got %q", groups)
		}
		for _, item := range parsed.Items {
			if item.Kind != KindString {
				return parseErrorf("node group names must be strings")
			}
			node.Groups = append(node.Groups, item.Str)
		}
	}

	s.doc.Nodes = append(s.doc.Nodes, node)
	s.state = stateProperties
	s.target = targetNode
	s.idx = len(s.doc.Nodes) - 1
	return nil
}

func (s *scanner) addConnection(attrs headerAttrs) error {
	conn := Connection{
		Signal: attrs.take("signal"),
		From:   attrs.take("from"),
		To:     attrs.take("to"),
		Method: attrs.take("method"),
	}
	if flags := attrs.take("flags"); flags != "" {
		n, err := strconv.Atoi(flags)
		if err != nil {
			return parseErrorf("connection flags must be an integer, got %q", flags)
		}
		conn.Flags = n
	}
	s.doc.Connections = append(s.doc.Connections, conn)
	return nil
}

// handleProperty parses one logical `key = value` line and attaches it to the
// section currently accumulating properties.
func (s *scanner) handleProperty(line string) error {
	if s.state != stateProperties {
		return parseErrorf("property line outside a node or sub_resource section: %q", truncate(line))
	}

	eq := strings.Index(line, "=")
	if eq <= 0 {
		return parseErrorf("expected property assignment, got %q", truncate(line))
	}
	key := strings.TrimSpace(line[:eq])
	raw := strings.TrimSpace(line[eq+1:])
	if key == "" {
		return parseErrorf("property assignment missing key in %q", truncate(line))
	}
	if raw == "" {
		return parseErrorf("property %q missing value", key)
	}

	if s.target == targetNode {
		node := &s.doc.Nodes[s.idx]
		// The script reference is kept as raw constructor-call text so
		// resolution can happen lazily, independent of the value grammar.
		if key == "script" {
			node.ScriptRef = raw
			return nil
		}
		v, err := ParseValue(raw)
		if err != nil {
			return err
		}
		node.Properties.Set(key, v)
		return nil
	}

	sub := &s.doc.SubResources[s.idx]
	v, err := ParseValue(raw)
	if err != nil {
		return err
	}
	sub.Properties.Set(key, v)
	return nil
}

// --- Section header lexing ---

// headerAttrs holds a section header's attributes. Quoted values arrive
// unescaped; bareword, array and constructor values arrive as raw text.
type headerAttrs map[string]string

// take removes and returns the named attribute, so rest() yields only what no
// known field consumed.
func (a headerAttrs) take(key string) string {
	v := a[key]
	delete(a, key)
	return v
}

// rest returns the remaining (unrecognized) attributes, preserved verbatim.
func (a headerAttrs) rest() map[string]string {
	if len(a) == 0 {
		return nil
	}
	out := make(map[string]string, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// parseSectionHeader lexes `[tag attr="value" attr2=bareword ...]`.
// Unrecognized attributes are preserved, not rejected.
func parseSectionHeader(line string) (string, headerAttrs, error) {
	lx := &valueParser{input: line, pos: 1} // skip '['

	tag := lx.scanIdent()
	if tag == "" {
		return "", nil, parseErrorf("section header missing tag in %q", truncate(line))
	}

	attrs := make(headerAttrs)
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.input) {
			return "", nil, parseErrorf("unterminated section header %q", truncate(line))
		}
		if lx.input[lx.pos] == ']' {
			lx.pos++
			if rest := strings.TrimSpace(lx.input[lx.pos:]); rest != "" {
				return "", nil, parseErrorf("unexpected text after section header: %q", rest)
			}
			return tag, attrs, nil
		}

		key := lx.scanIdent()
		if key == "" {
			return "", nil, parseErrorf("expected attribute name in section header at %q", lx.remainder())
		}
		lx.skipSpace()
		if lx.pos >= len(lx.input) || lx.input[lx.pos] != '=' {
			return "", nil, parseErrorf("expected '=' after attribute %q in section header", key)
		}
		lx.pos++
		lx.skipSpace()

		val, err := scanAttrValue(lx)
		if err != nil {
			return "", nil, err
		}
		attrs[key] = val
	}
}

// scanAttrValue reads one attribute value: a quoted string (returned
// unescaped), a balanced bracketed array (raw), or a bareword optionally
// followed by a balanced constructor-call argument list (raw).
func scanAttrValue(lx *valueParser) (string, error) {
	if lx.pos >= len(lx.input) {
		return "", parseErrorf("attribute missing value")
	}

	switch lx.input[lx.pos] {
	case '"':
		return lx.parseQuoted()
	case '[':
		return scanBalanced(lx)
	default:
		start := lx.pos
		for lx.pos < len(lx.input) {
			c := lx.input[lx.pos]
			if c == ' ' || c == '\t' || c == ']' {
				break
			}
			if c == '(' {
				if _, err := scanBalanced(lx); err != nil {
					return "", err
				}
				break
			}
			lx.pos++
		}
		if lx.pos == start {
			return "", parseErrorf("attribute missing value at %q", lx.remainder())
		}
		return lx.input[start:lx.pos], nil
	}
}

// scanBalanced consumes a delimiter-balanced span (quote-aware) starting at
// the current '(' / '[' / '{' and returns its raw text.
func scanBalanced(lx *valueParser) (string, error) {
	start := lx.pos
	var depth depthTracker
	for lx.pos < len(lx.input) {
		depth.feedByte(lx.input[lx.pos])
		lx.pos++
		if !depth.open() {
			if depth.unbalanced() {
				return "", parseErrorf("unbalanced delimiters at %q", truncate(lx.input[start:]))
			}
			return lx.input[start:lx.pos], nil
		}
	}
	return "", parseErrorf("unterminated delimiter at %q", truncate(lx.input[start:]))
}

// --- Delimiter depth tracking ---

// depthTracker counts net (, [, { nesting outside quoted strings, across
// multiple fed lines. Escape sequences inside strings are honored.
type depthTracker struct {
	depth   int
	inQuote bool
	escaped bool
	under   bool // a closer appeared with no matching opener
}

func (d *depthTracker) feed(s string) {
	for i := 0; i < len(s); i++ {
		d.feedByte(s[i])
	}
}

func (d *depthTracker) feedByte(c byte) {
	if d.inQuote {
		switch {
		case d.escaped:
			d.escaped = false
		case c == '\\':
			d.escaped = true
		case c == '"':
			d.inQuote = false
		}
		return
	}
	switch c {
	case '"':
		d.inQuote = true
	case '(', '[', '{':
		d.depth++
	case ')', ']', '}':
		d.depth--
		if d.depth < 0 {
			d.under = true
		}
	}
}

// open reports whether more input is needed to close the current nesting.
func (d *depthTracker) open() bool {
	return d.depth > 0 || d.inQuote
}

// unbalanced reports whether the fed input can never balance.
func (d *depthTracker) unbalanced() bool {
	return d.under || d.depth != 0
}

func truncate(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
