package swagger

import "maps"

// OperationBuilder provides a fluent API for attaching endpoint metadata to
// a route at registration time.
//
//	spec.Route(r.HandleFunc("/health", health).Methods(http.MethodGet)).
//	    Summary("Health check").
//	    Tags("ops").
//	    Returns(Status{})
type OperationBuilder struct {
	ep Endpoint
}

func newOperationBuilder() *OperationBuilder {
	return &OperationBuilder{}
}

// Method restricts the metadata to one method of the route.
func (b *OperationBuilder) Method(method string) *OperationBuilder {
	b.ep.Method = method
	return b
}

// OperationID sets the operation ID, overriding the route name.
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.ep.OperationID = id
	return b
}

// Summary sets the operation summary.
func (b *OperationBuilder) Summary(s string) *OperationBuilder {
	b.ep.Summary = s
	return b
}

// Description sets the operation description.
func (b *OperationBuilder) Description(d string) *OperationBuilder {
	b.ep.Notes = d
	return b
}

// Tags adds tags to the operation.
func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.ep.Tags = append(b.ep.Tags, tags...)
	return b
}

// Deprecated marks the operation as deprecated.
func (b *OperationBuilder) Deprecated() *OperationBuilder {
	b.ep.Deprecated = true
	return b
}

// Consumes sets the request media types.
func (b *OperationBuilder) Consumes(types ...string) *OperationBuilder {
	b.ep.Consumes = types
	return b
}

// Produces sets the response media types.
func (b *OperationBuilder) Produces(types ...string) *OperationBuilder {
	b.ep.Produces = types
	return b
}

// Schemes sets the transfer protocols of the operation.
func (b *OperationBuilder) Schemes(schemes ...string) *OperationBuilder {
	b.ep.Schemes = schemes
	return b
}

// Security sets the operation security requirements.
func (b *OperationBuilder) Security(reqs ...SecurityRequirement) *OperationBuilder {
	b.ep.Security = reqs
	return b
}

// Returns sets the body type of the 200 response.
func (b *OperationBuilder) Returns(body any) *OperationBuilder {
	b.ep.Response = body
	b.ep.ResponseList = false
	return b
}

// ReturnsList sets the 200 response to an array of body.
func (b *OperationBuilder) ReturnsList(body any) *OperationBuilder {
	b.ep.Response = body
	b.ep.ResponseList = true
	return b
}

// Response documents a status code. An empty message falls back to the
// HTTP status text.
func (b *OperationBuilder) Response(code int, message string, body any) *OperationBuilder {
	b.ep.Responses = append(b.ep.Responses, Reply{Code: code, Message: message, Body: body})
	return b
}

// Param adds an implicit parameter.
func (b *OperationBuilder) Param(p Param) *OperationBuilder {
	b.ep.Params = append(b.ep.Params, p)
	return b
}

// Body adds a required body parameter of the given type.
func (b *OperationBuilder) Body(description string, body any) *OperationBuilder {
	return b.Param(Param{Name: "body", In: "body", Description: description, Required: true, Body: body})
}

// Extension sets a vendor extension. The key must start with "x-".
func (b *OperationBuilder) Extension(key string, value any) *OperationBuilder {
	if b.ep.Extensions == nil {
		b.ep.Extensions = make(map[string]any)
	}
	b.ep.Extensions[key] = value
	return b
}

// endpoint returns a copy of the collected metadata.
func (b *OperationBuilder) endpoint() Endpoint {
	ep := b.ep
	ep.Extensions = maps.Clone(b.ep.Extensions)
	return ep
}
