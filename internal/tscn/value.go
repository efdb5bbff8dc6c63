package tscn

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrParse is the sentinel wrapped by every structural parse failure. Its
// message is the literal prefix callers display and pattern-match on.
var ErrParse = errors.New("Parse error")

// parseErrorf builds an error wrapping ErrParse so that both
// errors.Is(err, ErrParse) and a "Parse error" substring check hold.
func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// --- Value sum type ---

// ValueKind discriminates the closed set of TSCN literal forms.
type ValueKind string

const (
	KindString      ValueKind = "string"
	KindNumber      ValueKind = "number"
	KindBool        ValueKind = "bool"
	KindNull        ValueKind = "null"
	KindArray       ValueKind = "array"
	KindRecord      ValueKind = "record"
	KindConstructor ValueKind = "constructor"
	KindExtRef      ValueKind = "extResource"
	KindSubRef      ValueKind = "subResource"
)

// Value is one parsed right-hand-side literal. Exactly the fields relevant to
// Kind are populated; consumption sites switch exhaustively on Kind.
type Value struct {
	Kind   ValueKind
	Str    string     // KindString
	Num    float64    // KindNumber
	Bool   bool       // KindBool
	Items  []Value    // KindArray, KindConstructor (args)
	Record Properties // KindRecord
	Ctor   string     // KindConstructor (type name)
	Ref    string     // KindExtRef, KindSubRef (resource id)
}

// MarshalJSON collapses a Value to natural JSON. Constructors become
// {"$type": name, "args": [...]}; resource refs become
// {"$extResource"/"$subResource": id} so clients can tell them apart without
// re-parsing text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		if math.IsInf(v.Num, 0) || math.IsNaN(v.Num) {
			// encoding/json rejects non-finite floats.
			return json.Marshal(strconv.FormatFloat(v.Num, 'g', -1, 64))
		}
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNull:
		return []byte("null"), nil
	case KindArray:
		if v.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Items)
	case KindRecord:
		return json.Marshal(v.Record)
	case KindConstructor:
		return json.Marshal(struct {
			Type string  `json:"$type"`
			Args []Value `json:"args"`
		}{v.Ctor, v.Items})
	case KindExtRef:
		return json.Marshal(map[string]string{"$extResource": v.Ref})
	case KindSubRef:
		return json.Marshal(map[string]string{"$subResource": v.Ref})
	default:
		return nil, fmt.Errorf("unknown value kind %q", v.Kind)
	}
}

// Convenience constructors used by tests and by the scanner.

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func NullValue() Value            { return Value{Kind: KindNull} }

// --- Value parser ---

// ParseValue parses a single trimmed right-hand-side literal. The whole input
// must be consumed; trailing text after a complete value is an error, and no
// partial result is ever returned.
func ParseValue(input string) (Value, error) {
	p := &valueParser{input: input}
	p.skipSpace()
	if p.pos >= len(p.input) {
		return Value{}, parseErrorf("empty value")
	}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return Value{}, parseErrorf("trailing input after value: %q", p.remainder())
	}
	return v, nil
}

type valueParser struct {
	input string
	pos   int
}

func (p *valueParser) skipSpace() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		p.pos++
	}
}

// remainder returns the unconsumed input, truncated for error messages.
func (p *valueParser) remainder() string {
	rest := p.input[p.pos:]
	if len(rest) > 40 {
		rest = rest[:40] + "..."
	}
	return rest
}

func (p *valueParser) parseValue() (Value, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return Value{}, parseErrorf("unexpected end of input, expected a value")
	}

	switch c := p.input[p.pos]; {
	case c == '"':
		s, err := p.parseQuoted()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case c == '&' || c == '^':
		// StringName (&"...") and NodePath (^"...") prefixes collapse to
		// plain strings.
		p.pos++
		s, err := p.parseQuoted()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseRecord()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseIdent()
	default:
		return Value{}, parseErrorf("unrecognized token at %q", p.remainder())
	}
}

// parseQuoted consumes a double-quoted string, unescaping \" \\ \n \t \r.
func (p *valueParser) parseQuoted() (string, error) {
	if p.pos >= len(p.input) || p.input[p.pos] != '"' {
		return "", parseErrorf("expected string at %q", p.remainder())
	}
	p.pos++ // opening quote

	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '"':
			p.pos++
			return sb.String(), nil
		case '\\':
			if p.pos+1 >= len(p.input) {
				return "", parseErrorf("unterminated escape in string")
			}
			p.pos++
			switch esc := p.input[p.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(esc)
			}
			p.pos++
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", parseErrorf("unterminated string literal")
}

func (p *valueParser) parseArray() (Value, error) {
	p.pos++ // consume '['
	items := []Value{}

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ']' {
		p.pos++
		return Value{Kind: KindArray, Items: items}, nil
	}

	for {
		item, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return Value{}, parseErrorf("unterminated array, expected ',' or ']'")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Value{Kind: KindArray, Items: items}, nil
		default:
			return Value{}, parseErrorf("expected ',' or ']' in array, got %q", p.remainder())
		}
	}
}

// parseRecord consumes a brace-delimited key:value sequence. Keys may be
// quoted strings or barewords; unknown keys are preserved verbatim.
func (p *valueParser) parseRecord() (Value, error) {
	p.pos++ // consume '{'
	var rec Properties

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '}' {
		p.pos++
		return Value{Kind: KindRecord, Record: rec}, nil
	}

	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return Value{}, parseErrorf("unterminated record, expected a key")
		}

		var key string
		var err error
		if p.input[p.pos] == '"' {
			key, err = p.parseQuoted()
			if err != nil {
				return Value{}, err
			}
		} else if p.input[p.pos] == '&' {
			p.pos++
			key, err = p.parseQuoted()
			if err != nil {
				return Value{}, err
			}
		} else {
			key = p.scanIdent()
			if key == "" {
				return Value{}, parseErrorf("expected record key at %q", p.remainder())
			}
		}

		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ':' {
			return Value{}, parseErrorf("expected ':' after record key %q", key)
		}
		p.pos++

		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		rec.Set(key, val)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return Value{}, parseErrorf("unterminated record, expected ',' or '}'")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Value{Kind: KindRecord, Record: rec}, nil
		default:
			return Value{}, parseErrorf("expected ',' or '}' in record, got %q", p.remainder())
		}
	}
}

func (p *valueParser) parseNumber() (Value, error) {
	start := p.pos
	if c := p.input[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && p.pos > start {
			prev := p.input[p.pos-1]
			if prev == 'e' || prev == 'E' {
				p.pos++
				continue
			}
		}
		break
	}

	tok := p.input[start:p.pos]
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return Value{}, parseErrorf("invalid number literal %q", tok)
	}
	return NumberValue(n), nil
}

// parseIdent consumes a bare identifier: a keyword (true/false/null), a typed
// constructor call, or an ExtResource/SubResource reference.
func (p *valueParser) parseIdent() (Value, error) {
	ident := p.scanIdent()

	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '(' {
		switch ident {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		case "null":
			return NullValue(), nil
		case "inf":
			return NumberValue(math.Inf(1)), nil
		case "inf_neg":
			return NumberValue(math.Inf(-1)), nil
		default:
			return Value{}, parseErrorf("unrecognized token %q", ident)
		}
	}

	args, err := p.parseArgs()
	if err != nil {
		return Value{}, err
	}

	// Resource references get their own variants so downstream resolution
	// never re-parses text.
	if ident == "ExtResource" || ident == "SubResource" {
		if len(args) != 1 || args[0].Kind != KindString {
			return Value{}, parseErrorf("%s expects a single string id", ident)
		}
		kind := KindExtRef
		if ident == "SubResource" {
			kind = KindSubRef
		}
		return Value{Kind: kind, Ref: args[0].Str}, nil
	}

	return Value{Kind: KindConstructor, Ctor: ident, Items: args}, nil
}

func (p *valueParser) parseArgs() ([]Value, error) {
	p.pos++ // consume '('
	args := []Value{}

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ')' {
		p.pos++
		return args, nil
	}

	for {
		arg, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, parseErrorf("unterminated constructor call, expected ',' or ')'")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, parseErrorf("expected ',' or ')' in constructor call, got %q", p.remainder())
		}
	}
}

func (p *valueParser) scanIdent() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if !isIdentStart(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
