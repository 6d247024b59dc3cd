package swagger

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Exampler can be implemented by types to provide an example value for
// their definition.
//
//	func (User) SwaggerExample() any {
//	    return User{Login: "john@doe.com"}
//	}
type Exampler interface {
	SwaggerExample() any
}

var timeType = reflect.TypeOf(time.Time{})

// SchemaGenerator converts Go types to schemas. Named struct types are
// collected as definitions and referenced with $ref.
//
// See: https://swagger.io/specification/v2/#definitions-object
type SchemaGenerator struct {
	definitions map[string]*Schema
	visited     map[reflect.Type]bool
	typeNames   map[reflect.Type]string
	nameTypes   map[string]reflect.Type
}

// NewSchemaGenerator creates a new schema generator.
func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		definitions: make(map[string]*Schema),
		visited:     make(map[reflect.Type]bool),
		typeNames:   make(map[reflect.Type]string),
		nameTypes:   make(map[string]reflect.Type),
	}
}

// Definitions returns the collected definitions.
func (g *SchemaGenerator) Definitions() map[string]*Schema {
	return g.definitions
}

// Generate produces a schema for the given value. A *Schema is returned
// as is; nil yields nil.
func (g *SchemaGenerator) Generate(v any) *Schema {
	switch v := v.(type) {
	case nil:
		return nil
	case *Schema:
		return v
	}
	return g.generateType(reflect.TypeOf(v))
}

// GenerateList produces an array schema whose items describe v.
func (g *SchemaGenerator) GenerateList(v any) *Schema {
	items := g.Generate(v)
	if items == nil {
		return nil
	}
	return &Schema{Type: "array", Items: items}
}

func (g *SchemaGenerator) generateType(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != timeType {
		if name := g.schemaName(t); name != "" {
			if !g.visited[t] {
				g.visited[t] = true
				schema := g.generateStructSchema(t)
				if ex, ok := reflect.New(t).Interface().(Exampler); ok {
					schema.Example = ex.SwaggerExample()
				}
				g.definitions[name] = schema
			}
			return &Schema{Ref: "#/definitions/" + name}
		}
	}

	return g.generateInlineType(t)
}

// generateInlineType maps Go kinds to Swagger 2.0 data types.
//
// See: https://swagger.io/specification/v2/#data-types
func (g *SchemaGenerator) generateInlineType(t reflect.Type) *Schema {
	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		return &Schema{Type: "integer", Format: "int64"}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &Schema{Type: "integer", Format: "int32"}
	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}
	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: g.generateType(t.Elem())}
	case reflect.Array:
		return &Schema{Type: "array", Items: g.generateType(t.Elem())}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Schema{Type: "object"}
		}
		return &Schema{Type: "object", AdditionalProperties: g.generateType(t.Elem())}
	case reflect.Struct:
		return g.generateStructSchema(t)
	case reflect.Interface:
		return &Schema{}
	}
	return nil
}

func (g *SchemaGenerator) generateStructSchema(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}
	g.collectFields(t, schema, false)
	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}
	return schema
}

// collectFields adds the exported fields of t to schema. Fields of
// pointer-embedded structs are optional since the pointer may be nil.
func (g *SchemaGenerator) collectFields(t reflect.Type, schema *Schema, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Anonymous {
			if name, _ := parseJSONTag(field.Tag.Get("json")); name == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					g.collectFields(ft, schema, allOptional || isPtr)
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := g.generateType(field.Type)
		if fieldSchema == nil {
			continue
		}

		// Siblings of $ref are ignored in Swagger 2.0.
		if fieldSchema.Ref == "" {
			applySwaggerTag(fieldSchema, field.Tag.Get("swagger"))
		}

		if opts.stringEncode && fieldSchema.Ref == "" {
			fieldSchema.Type = "string"
			fieldSchema.Format = ""
		}

		schema.Properties[name] = fieldSchema
		if !opts.omitempty && !allOptional {
			schema.Required = append(schema.Required, name)
		}
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applySwaggerTag applies the comma separated `swagger:"..."` struct tag to
// a field schema.
//
//	Login string `json:"login" swagger:"description=Login name,example=john@doe.com"`
func applySwaggerTag(schema *Schema, tag string) {
	if tag == "" {
		return
	}

	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "description":
			schema.Description = value
		case "title":
			schema.Title = value
		case "example":
			schema.Example = parseTagValue(schema, value)
		case "default":
			schema.Default = parseTagValue(schema, value)
		case "format":
			schema.Format = value
		case "pattern":
			schema.Pattern = value
		case "enum":
			values := strings.Split(value, "|")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = parseTagValue(schema, v)
			}
		case "minimum":
			schema.Minimum = parseFloat(value)
		case "maximum":
			schema.Maximum = parseFloat(value)
		case "multipleOf":
			schema.MultipleOf = parseFloat(value)
		case "exclusiveMinimum":
			schema.ExclusiveMinimum = true
		case "exclusiveMaximum":
			schema.ExclusiveMaximum = true
		case "minLength":
			schema.MinLength = parseInt(value)
		case "maxLength":
			schema.MaxLength = parseInt(value)
		case "minItems":
			schema.MinItems = parseInt(value)
		case "maxItems":
			schema.MaxItems = parseInt(value)
		case "uniqueItems":
			schema.UniqueItems = true
		case "readOnly":
			schema.ReadOnly = true
		}
	}
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// parseTagValue converts a tag value to the Go type matching the schema type.
func parseTagValue(schema *Schema, value string) any {
	switch schema.Type {
	case "integer":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

// schemaName returns a unique definition name for t. A second type with the
// same simple name is prefixed with its package name ("ApiUser"), and a
// numeric suffix is added if that still collides.
func (g *SchemaGenerator) schemaName(t reflect.Type) string {
	simple := sanitizeSchemaName(t.Name())
	if simple == "" || t.PkgPath() == "" {
		return ""
	}
	if name, ok := g.typeNames[t]; ok {
		return name
	}

	name := simple
	if existing, ok := g.nameTypes[name]; ok && existing != t {
		name = pkgPrefix(t.PkgPath()) + simple
		if existing, ok := g.nameTypes[name]; ok && existing != t {
			base := name
			for i := 2; ; i++ {
				candidate := base + strconv.Itoa(i)
				if _, ok := g.nameTypes[candidate]; !ok {
					name = candidate
					break
				}
			}
		}
	}

	g.typeNames[t] = name
	g.nameTypes[name] = t
	return name
}

// pkgPrefix capitalizes the last segment of a package path
// ("internal/users" -> "Users").
func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if pkgPath == "" {
		return ""
	}
	pkgPath = strings.NewReplacer("-", "_", ".", "_").Replace(pkgPath)
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName turns generic instantiation names into plain
// identifiers: "Page[User]" becomes "PageUser" and "Page[[]User]" becomes
// "PageUserList".
func sanitizeSchemaName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 {
		return name
	}

	base := name[:idx]
	inner := name[idx+1 : len(name)-1]

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")
	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	result := base + inner
	if isList {
		result += "List"
	}
	return result
}
