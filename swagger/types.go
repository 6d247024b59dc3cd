package swagger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the description format version written to every document.
const Version = "2.0"

// Document represents the root of a Swagger 2.0 document.
//
// See: https://swagger.io/specification/v2/#swagger-object
type Document struct {
	Swagger             string                     `json:"swagger" yaml:"swagger"`
	Info                Info                       `json:"info" yaml:"info"`
	Host                string                     `json:"host,omitempty" yaml:"host,omitempty"`
	BasePath            string                     `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Schemes             []string                   `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Consumes            []string                   `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces            []string                   `json:"produces,omitempty" yaml:"produces,omitempty"`
	Paths               *Paths                     `json:"paths" yaml:"paths"`
	Definitions         map[string]*Schema         `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	SecurityDefinitions map[string]*SecurityScheme `json:"securityDefinitions,omitempty" yaml:"securityDefinitions,omitempty"`
	Security            []SecurityRequirement      `json:"security,omitempty" yaml:"security,omitempty"`
	Tags                []Tag                      `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://swagger.io/specification/v2/#info-object
type Info struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string   `json:"version" yaml:"version"`
	Contact     *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	License     *License `json:"license,omitempty" yaml:"license,omitempty"`
}

// Contact represents contact information for the API.
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// License represents license information for the API.
type License struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Tag adds metadata to a tag used by operations.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
//
// See: https://swagger.io/specification/v2/#path-item-object
type PathItem struct {
	Get        *Operation   `json:"get,omitempty" yaml:"get,omitempty"`
	Put        *Operation   `json:"put,omitempty" yaml:"put,omitempty"`
	Post       *Operation   `json:"post,omitempty" yaml:"post,omitempty"`
	Delete     *Operation   `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options    *Operation   `json:"options,omitempty" yaml:"options,omitempty"`
	Head       *Operation   `json:"head,omitempty" yaml:"head,omitempty"`
	Patch      *Operation   `json:"patch,omitempty" yaml:"patch,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Methods lists the HTTP methods a path item can hold, in document order.
var Methods = []string{
	http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
	http.MethodOptions, http.MethodHead, http.MethodPatch,
}

// Describable reports whether a path item has an operation slot for method.
func Describable(method string) bool {
	return (&PathItem{}).slot(method) != nil
}

// slot returns the field holding the operation for method, or nil when the
// method cannot be described.
func (p *PathItem) slot(method string) **Operation {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return &p.Get
	case http.MethodPut:
		return &p.Put
	case http.MethodPost:
		return &p.Post
	case http.MethodDelete:
		return &p.Delete
	case http.MethodOptions:
		return &p.Options
	case http.MethodHead:
		return &p.Head
	case http.MethodPatch:
		return &p.Patch
	}
	return nil
}

// Operation returns the operation registered for method, if any.
func (p *PathItem) Operation(method string) *Operation {
	if s := p.slot(method); s != nil {
		return *s
	}
	return nil
}

// SetOperation stores op under method. It reports false when the method
// has no slot in a path item.
func (p *PathItem) SetOperation(method string, op *Operation) bool {
	s := p.slot(method)
	if s == nil {
		return false
	}
	*s = op
	return true
}

// Operations returns the non-nil operations keyed by upper-case method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation)
	for _, m := range Methods {
		if op := p.Operation(m); op != nil {
			ops[m] = op
		}
	}
	return ops
}

// Operation describes a single API operation on a path.
//
// See: https://swagger.io/specification/v2/#operation-object
type Operation struct {
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Consumes    []string              `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces    []string              `json:"produces,omitempty" yaml:"produces,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]*Response  `json:"responses,omitempty" yaml:"responses,omitempty"`
	Schemes     []string              `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Security    []SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`

	// Extensions holds vendor extensions. Keys must start with "x-".
	Extensions map[string]any `json:"-" yaml:",inline"`
}

type operationAlias Operation

// MarshalJSON writes the operation fields followed by its vendor
// extensions in key order.
func (o Operation) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(operationAlias(o))
	if err != nil {
		return nil, err
	}
	if len(o.Extensions) == 0 {
		return data, nil
	}

	keys := make([]string, 0, len(o.Extensions))
	for k := range o.Extensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	needComma := len(data) > 2
	for _, k := range keys {
		if !isExtension(k) {
			return nil, fmt.Errorf("swagger: extension key %q must start with \"x-\"", k)
		}
		v, err := json.Marshal(o.Extensions[k])
		if err != nil {
			return nil, fmt.Errorf("swagger: extension %q: %w", k, err)
		}
		if needComma {
			buf.WriteByte(',')
		}
		needComma = true
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the operation fields and collects "x-" keys into
// Extensions.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var alias operationAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if !isExtension(k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("swagger: extension %q: %w", k, err)
		}
		if alias.Extensions == nil {
			alias.Extensions = make(map[string]any)
		}
		alias.Extensions[k] = val
	}

	*o = Operation(alias)
	return nil
}

func isExtension(key string) bool {
	return strings.HasPrefix(key, "x-")
}

// Parameter describes a single operation parameter. Body parameters carry
// a Schema; all others carry a primitive Type.
//
// See: https://swagger.io/specification/v2/#parameter-object
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string  `json:"format,omitempty" yaml:"format,omitempty"`
	Items       *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	Default     any     `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any   `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Response describes a single response from an API operation.
//
// See: https://swagger.io/specification/v2/#response-object
type Response struct {
	Description string             `json:"description" yaml:"description"`
	Schema      *Schema            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Headers     map[string]*Header `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Header describes a response header.
type Header struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type" yaml:"type"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Schema is the Swagger 2.0 subset of JSON Schema used for definitions,
// body parameters and responses.
//
// See: https://swagger.io/specification/v2/#schema-object
type Schema struct {
	Ref                  string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format               string             `json:"format,omitempty" yaml:"format,omitempty"`
	Title                string             `json:"title,omitempty" yaml:"title,omitempty"`
	Description          string             `json:"description,omitempty" yaml:"description,omitempty"`
	Default              any                `json:"default,omitempty" yaml:"default,omitempty"`
	Example              any                `json:"example,omitempty" yaml:"example,omitempty"`
	Enum                 []any              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items                *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum     bool               `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum     bool               `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MultipleOf           *float64           `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`
	MinLength            *int               `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern              string             `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinItems             *int               `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems             *int               `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems          bool               `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`
	ReadOnly             bool               `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
}

// SecurityScheme defines a security scheme usable by operations.
//
// See: https://swagger.io/specification/v2/#security-scheme-object
type SecurityScheme struct {
	Type             string            `json:"type" yaml:"type"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	Name             string            `json:"name,omitempty" yaml:"name,omitempty"`
	In               string            `json:"in,omitempty" yaml:"in,omitempty"`
	Flow             string            `json:"flow,omitempty" yaml:"flow,omitempty"`
	AuthorizationURL string            `json:"authorizationUrl,omitempty" yaml:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
	Scopes           map[string]string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// SecurityRequirement maps security scheme names to required scopes.
//
// See: https://swagger.io/specification/v2/#security-requirement-object
type SecurityRequirement map[string][]string

// Paths holds path items keyed by normalized path template. Iteration and
// serialization follow insertion order.
//
// See: https://swagger.io/specification/v2/#paths-object
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

// NewPaths returns an empty path table.
func NewPaths() *Paths {
	return &Paths{items: make(map[string]*PathItem)}
}

// Len returns the number of paths.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the paths in insertion order.
func (p *Paths) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Get returns the path item for path.
func (p *Paths) Get(path string) (*PathItem, bool) {
	if p == nil {
		return nil, false
	}
	item, ok := p.items[path]
	return item, ok
}

// Set stores item under path. A path that already exists keeps its
// position.
func (p *Paths) Set(path string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, ok := p.items[path]; !ok {
		p.keys = append(p.keys, path)
	}
	p.items[path] = item
}

// MarshalJSON writes the paths as a JSON object in insertion order.
func (p *Paths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.items[k])
		if err != nil {
			return nil, fmt.Errorf("swagger: path %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys.
func (p *Paths) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("swagger: paths must be an object")
	}

	*p = Paths{items: make(map[string]*PathItem)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("swagger: unexpected paths key %v", tok)
		}
		item := &PathItem{}
		if err := dec.Decode(item); err != nil {
			return fmt.Errorf("swagger: path %q: %w", key, err)
		}
		p.Set(key, item)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML writes the paths as a mapping node in insertion order.
func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range p.Keys() {
		val := &yaml.Node{}
		if err := val.Encode(p.items[k]); err != nil {
			return nil, fmt.Errorf("swagger: path %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node keeping the order of its keys.
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("swagger: paths must be a mapping, line %d", node.Line)
	}
	*p = Paths{items: make(map[string]*PathItem)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		item := &PathItem{}
		if err := node.Content[i+1].Decode(item); err != nil {
			return fmt.Errorf("swagger: path %q: %w", key, err)
		}
		p.Set(key, item)
	}
	return nil
}
