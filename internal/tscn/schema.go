package tscn

import (
	"bytes"
	"encoding/json"
)

// --- Document model ---

// DefaultFormatVersion is assumed when a document has no gd_scene header,
// matching current Godot 4 output.
const DefaultFormatVersion = 3

// SceneHeader holds the gd_scene section of a scene file.
type SceneHeader struct {
	FormatVersion int               `json:"formatVersion"`
	UID           string            `json:"uid,omitempty"`
	LoadSteps     int               `json:"loadSteps,omitempty"`
	Attrs         map[string]string `json:"attrs,omitempty"` // unrecognized header attributes, preserved verbatim
}

// ExtResource is a declared reference to an external file (script, texture,
// packed scene).
type ExtResource struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// SubResource is a resource defined inline within the scene file.
type SubResource struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
}

// SceneNode is one [node ...] declaration. Parent is the slash-joined path of
// ancestor names ("." for a direct root child); the empty string marks the
// scene root.
type SceneNode struct {
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	Parent     string     `json:"parent,omitempty"`
	Instance   string     `json:"instance,omitempty"` // raw ExtResource(...) text from the instance attribute
	Groups     []string   `json:"groups,omitempty"`
	ScriptRef  string     `json:"scriptRef,omitempty"` // raw constructor-call text of the script property
	Properties Properties `json:"properties"`
}

// Connection is one [connection ...] declaration.
type Connection struct {
	Signal string `json:"signal"`
	From   string `json:"from"`
	To     string `json:"to"`
	Method string `json:"method"`
	Flags  int    `json:"flags,omitempty"`
}

// EditableInstance is one [editable ...] declaration.
type EditableInstance struct {
	Path string `json:"path"`
}

// SceneDocument is the aggregate result of parsing one scene file. It is
// immutable once Parse returns; all slices preserve declaration order.
type SceneDocument struct {
	Header            SceneHeader        `json:"header"`
	ExtResources      []ExtResource      `json:"extResources"`
	SubResources      []SubResource      `json:"subResources"`
	Nodes             []SceneNode        `json:"nodes"`
	Connections       []Connection       `json:"connections"`
	EditableInstances []EditableInstance `json:"editableInstances"`
}

// ExtResourceByID returns the external resource with the given id, or nil.
func (d *SceneDocument) ExtResourceByID(id string) *ExtResource {
	for i := range d.ExtResources {
		if d.ExtResources[i].ID == id {
			return &d.ExtResources[i]
		}
	}
	return nil
}

// SubResourceByID returns the inline resource with the given id, or nil.
func (d *SceneDocument) SubResourceByID(id string) *SubResource {
	for i := range d.SubResources {
		if d.SubResources[i].ID == id {
			return &d.SubResources[i]
		}
	}
	return nil
}

// --- Ordered properties ---

// Properties is an insertion-ordered string-to-Value map. The zero value is
// ready to use.
type Properties struct {
	keys   []string
	values map[string]Value
}

// Set stores a value under key, preserving the key's first insertion position.
func (p *Properties) Set(key string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the property keys in insertion order.
func (p *Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of stored properties.
func (p *Properties) Len() int {
	return len(p.keys)
}

// MarshalJSON renders the properties as a JSON object in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
