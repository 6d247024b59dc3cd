package swagger

import (
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/vitalvas/routedoc/mux"
)

// Spec collects document-level metadata and registration-time endpoint
// metadata, and generates documents from a router.
type Spec struct {
	mu sync.Mutex

	info                Info
	basePath            string
	logger              *slog.Logger
	security            []SecurityRequirement
	tags                []Tag
	securityDefinitions map[string]*SecurityScheme

	operations map[string]*OperationBuilder     // keyed by route name (Op)
	routeOps   map[*mux.Route]*OperationBuilder // keyed by route pointer (Route)
}

// NewSpec creates a new spec builder with the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:       info,
		operations: make(map[string]*OperationBuilder),
		routeOps:   make(map[*mux.Route]*OperationBuilder),
	}
}

// SetBasePath sets the path all documented paths are relative to. It is
// written to the document as is; route paths are not rewritten.
func (s *Spec) SetBasePath(basePath string) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basePath = basePath
	return s
}

// SetLogger sets the logger used for generation warnings.
func (s *Spec) SetLogger(logger *slog.Logger) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
	return s
}

// SetSecurity sets the document-level security requirements.
func (s *Spec) SetSecurity(reqs ...SecurityRequirement) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.security = reqs
	return s
}

// AddTag adds a tag with a description.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tag)
	return s
}

// AddSecurityDefinition registers a named security scheme.
func (s *Spec) AddSecurityDefinition(name string, scheme *SecurityScheme) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.securityDefinitions == nil {
		s.securityDefinitions = make(map[string]*SecurityScheme)
	}
	s.securityDefinitions[name] = scheme
	return s
}

// Op returns the OperationBuilder for the named route, creating it on first
// use.
func (s *Spec) Op(routeName string) *OperationBuilder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.operations[routeName]; ok {
		return b
	}
	b := newOperationBuilder()
	s.operations[routeName] = b
	return b
}

// Route attaches a new OperationBuilder to a route.
func (s *Spec) Route(route *mux.Route) *OperationBuilder {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := newOperationBuilder()
	s.routeOps[route] = b
	return b
}

func (s *Spec) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Snapshot returns the routes of r in registration order. Prefix routes,
// including subrouter mounts, and routes without a path have an empty
// Path. Routes with registration errors are logged and left out.
func (s *Spec) Snapshot(r *mux.Router) []RouteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(r)
}

func (s *Spec) snapshot(r *mux.Router) []RouteEntry {
	logger := s.log()
	var routes []RouteEntry

	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if err := route.GetError(); err != nil {
			logger.Warn("skipping route with registration error", "route", route.GetName(), "error", err)
			return nil
		}

		entry := RouteEntry{
			Handler: route.GetHandler(),
			Name:    route.GetName(),
		}
		if tpl, err := route.GetPathTemplate(); err == nil && !route.IsPathPrefix() {
			entry.Path = tpl
		}

		if methods, err := route.GetMethods(); err == nil {
			for _, m := range methods {
				if !Describable(m) {
					logger.Debug("skipping method without operation slot", "route", entry.Path, "method", m)
					continue
				}
				entry.Methods = append(entry.Methods, m)
			}
		}

		if b, ok := s.routeOps[route]; ok {
			entry.Endpoints = append(entry.Endpoints, b.endpoint())
		}
		if entry.Name != "" {
			if b, ok := s.operations[entry.Name]; ok {
				entry.Endpoints = append(entry.Endpoints, b.endpoint())
			}
		}

		routes = append(routes, entry)
		return nil
	})

	return routes
}

// Generate walks the router and builds the document.
func (s *Spec) Generate(r *mux.Router) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate(s.snapshot(r))
}

// GenerateFrom builds the document from a route snapshot.
func (s *Spec) GenerateFrom(routes []RouteEntry) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate(routes)
}

// generate runs the pipeline. The caller holds s.mu.
func (s *Spec) generate(routes []RouteEntry) *Document {
	schemas := NewSchemaGenerator()

	paths := BuildPathTable(routes)
	paths = ExtractOperations(paths, routes)
	paths = NewResolver(s.log(), schemas).Resolve(paths, routes)

	doc := Assemble(paths, s.info, s.basePath, maps.Clone(s.securityDefinitions))
	if defs := schemas.Definitions(); len(defs) > 0 {
		doc.Definitions = defs
	}
	doc.Security = s.security
	doc.Tags = s.mergeTags(paths)
	return doc
}

// Assemble wraps the path table with the top-level document fields.
func Assemble(paths *Paths, info Info, basePath string, securityDefinitions map[string]*SecurityScheme) *Document {
	if paths == nil {
		paths = NewPaths()
	}
	doc := &Document{
		Swagger:  Version,
		Info:     info,
		BasePath: basePath,
		Paths:    paths,
	}
	if len(securityDefinitions) > 0 {
		doc.SecurityDefinitions = securityDefinitions
	}
	return doc
}

// mergeTags combines the tags used by operations with the tags added to the
// spec. Added tags keep their description. The result is sorted by name.
func (s *Spec) mergeTags(paths *Paths) []Tag {
	userTags := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag
	for _, key := range paths.Keys() {
		item, _ := paths.Get(key)
		for _, op := range item.Operations() {
			for _, name := range op.Tags {
				if seen[name] {
					continue
				}
				seen[name] = true
				if tag, ok := userTags[name]; ok {
					tags = append(tags, tag)
				} else {
					tags = append(tags, Tag{Name: name})
				}
			}
		}
	}
	for _, tag := range s.tags {
		if !seen[tag.Name] {
			seen[tag.Name] = true
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags
}

// APIKeyScheme returns an API key security scheme read from the named
// header or query parameter.
func APIKeyScheme(name, in string) *SecurityScheme {
	return &SecurityScheme{Type: "apiKey", Name: name, In: strings.ToLower(in)}
}

// BasicScheme returns an HTTP basic authentication security scheme.
func BasicScheme() *SecurityScheme {
	return &SecurityScheme{Type: "basic"}
}

// Requirement returns a security requirement for the named scheme.
func Requirement(name string, scopes ...string) SecurityRequirement {
	if scopes == nil {
		scopes = []string{}
	}
	return SecurityRequirement{name: scopes}
}
