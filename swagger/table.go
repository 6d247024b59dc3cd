package swagger

// BuildPathTable returns one empty path item per distinct normalized path,
// in order of first appearance. Routes with an absent path are skipped.
func BuildPathTable(routes []RouteEntry) *Paths {
	paths := NewPaths()
	for _, route := range routes {
		norm, ok := NormalizePath(route.Path)
		if !ok {
			continue
		}
		if _, exists := paths.Get(norm); !exists {
			paths.Set(norm, &PathItem{})
		}
	}
	return paths
}

// ExtractOperations creates one operation per route method, with the path
// parameters of the route template, and stores it in the route's path item.
// A method registered twice for the same path keeps the later operation.
// Methods without a path item slot are ignored.
//
// A route bound to a single method uses its router name as operation ID.
func ExtractOperations(paths *Paths, routes []RouteEntry) *Paths {
	for _, route := range routes {
		norm, ok := NormalizePath(route.Path)
		if !ok {
			continue
		}
		item, ok := paths.Get(norm)
		if !ok {
			continue
		}

		var operationID string
		if len(route.Methods) == 1 {
			operationID = route.Name
		}

		for _, method := range route.Methods {
			item.SetOperation(method, &Operation{
				OperationID: operationID,
				Parameters:  PathParameters(route.Path),
			})
		}
	}
	return paths
}
