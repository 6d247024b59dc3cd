package swagger

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// Resolver decorates operations with the endpoint metadata of their routes.
type Resolver struct {
	logger  *slog.Logger
	schemas *SchemaGenerator
}

// NewResolver returns a resolver that logs to logger and collects body and
// response types into schemas. Nil arguments select slog.Default and a
// fresh generator.
func NewResolver(logger *slog.Logger, schemas *SchemaGenerator) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if schemas == nil {
		schemas = NewSchemaGenerator()
	}
	return &Resolver{logger: logger, schemas: schemas}
}

// Resolve applies, for every route, the endpoints declared by its handler
// followed by the endpoints attached at registration. Endpoints that match
// the same operation are applied in order, so later ones overwrite fields
// set by earlier ones. Failures to read a handler's endpoints are logged
// and only affect that route.
func (r *Resolver) Resolve(paths *Paths, routes []RouteEntry) *Paths {
	for _, route := range routes {
		norm, ok := NormalizePath(route.Path)
		if !ok {
			continue
		}
		item, ok := paths.Get(norm)
		if !ok {
			continue
		}

		endpoints := slices.Concat(r.declared(route), route.Endpoints)
		if len(endpoints) == 0 {
			continue
		}

		for _, method := range route.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			for _, ep := range endpoints {
				if matches(ep, route.Path, method) {
					r.decorate(op, ep, route.Path, method)
				}
			}
		}
	}
	return paths
}

// declared returns the endpoints declared by the route handler. A panic
// while reading them is treated like any other introspection failure.
func (r *Resolver) declared(route RouteEntry) (endpoints []Endpoint) {
	defer func() {
		if rv := recover(); rv != nil {
			r.logger.Warn("failed to read handler endpoints",
				"route", route.Path,
				"error", fmt.Errorf("panic: %v", rv),
			)
			endpoints = nil
		}
	}()

	endpoints, err := declaredEndpoints(route.Handler)
	if err != nil {
		r.logger.Warn("failed to read handler endpoints",
			"route", route.Path,
			"handler", fmt.Sprintf("%T", route.Handler),
			"error", err,
		)
		return nil
	}
	return endpoints
}

// matches reports whether ep applies to the route path and method: the
// methods are equal and the path ends with the endpoint path.
func matches(ep Endpoint, path, method string) bool {
	if ep.Method != "" && !strings.EqualFold(ep.Method, method) {
		return false
	}
	return strings.HasSuffix(path, ep.Path)
}

// decorate folds ep into op. Each step only touches its own field.
func (r *Resolver) decorate(op *Operation, ep Endpoint, path, method string) {
	if ep.Deprecated {
		op.Deprecated = true
	}
	if len(ep.Consumes) > 0 {
		op.Consumes = slices.Clone(ep.Consumes)
	}
	if len(ep.Produces) > 0 {
		op.Produces = slices.Clone(ep.Produces)
	}
	if ep.OperationID != "" {
		op.OperationID = ep.OperationID
	}
	if ep.Summary != "" {
		op.Summary = ep.Summary
	}
	if ep.Notes != "" {
		op.Description = ep.Notes
	}
	if len(ep.Schemes) > 0 {
		op.Schemes = slices.Clone(ep.Schemes)
	}
	if len(ep.Security) > 0 {
		op.Security = slices.Clone(ep.Security)
	}
	if len(ep.Tags) > 0 {
		op.Tags = slices.Clone(ep.Tags)
	}
	r.applyResponses(op, ep)
	if len(ep.Params) > 0 {
		params := make([]*Parameter, 0, len(ep.Params))
		for _, p := range ep.Params {
			params = append(params, r.parameter(p))
		}
		op.Parameters = mergeParameters(op.Parameters, params)
	}
	for key, value := range ep.Extensions {
		if !isExtension(key) {
			r.logger.Warn("ignoring vendor extension without x- prefix",
				"route", path,
				"method", method,
				"extension", key,
			)
			continue
		}
		if op.Extensions == nil {
			op.Extensions = make(map[string]any)
		}
		op.Extensions[key] = value
	}
}

// applyResponses merges the endpoint's response table into op by status
// code.
func (r *Resolver) applyResponses(op *Operation, ep Endpoint) {
	if ep.Response == nil && len(ep.Responses) == 0 {
		return
	}
	if op.Responses == nil {
		op.Responses = make(map[string]*Response)
	}

	if ep.Response != nil {
		schema := r.schemas.Generate(ep.Response)
		if ep.ResponseList {
			schema = r.schemas.GenerateList(ep.Response)
		}
		op.Responses[strconv.Itoa(http.StatusOK)] = &Response{
			Description: responseDescription(http.StatusOK),
			Schema:      schema,
		}
	}

	for _, reply := range ep.Responses {
		desc := reply.Message
		if desc == "" {
			desc = responseDescription(reply.Code)
		}
		op.Responses[strconv.Itoa(reply.Code)] = &Response{
			Description: desc,
			Schema:      r.schemas.Generate(reply.Body),
		}
	}
}

// parameter converts an implicit parameter to its document form.
func (r *Resolver) parameter(p Param) *Parameter {
	in := p.In
	if in == "" {
		in = "query"
	}
	param := &Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Required:    p.Required || in == "path",
	}

	if in == "body" {
		if param.Name == "" {
			param.Name = "body"
		}
		param.Schema = r.schemas.Generate(p.Body)
		if param.Schema == nil {
			param.Schema = &Schema{Type: "object"}
		}
		return param
	}

	param.Type = p.Type
	if param.Type == "" {
		param.Type = "string"
	}
	param.Format = p.Format
	return param
}

// mergeParameters combines the existing parameters with custom ones. A custom
// parameter replaces an existing one with the same name and location in
// place; others are appended.
func mergeParameters(existing, custom []*Parameter) []*Parameter {
	if len(existing) == 0 && len(custom) == 0 {
		return nil
	}

	merged := slices.Clone(existing)
	index := make(map[[2]string]int, len(merged))
	for i, p := range merged {
		index[[2]string{p.Name, p.In}] = i
	}

	for _, p := range custom {
		key := [2]string{p.Name, p.In}
		if i, ok := index[key]; ok {
			merged[i] = p
			continue
		}
		index[key] = len(merged)
		merged = append(merged, p)
	}
	return merged
}

// responseDescription returns the HTTP status text for code, or the code
// itself when it has none.
func responseDescription(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return strconv.Itoa(code)
}
