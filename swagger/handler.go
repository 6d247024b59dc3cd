package swagger

import (
	"net/http"

	"github.com/vitalvas/routedoc/mux"
)

// SecuritySchemeKey is the security definitions key of the scheme passed to
// Publish.
const SecuritySchemeKey = "auth"

// Publish generates the document for the routes registered on r so far and
// registers two read endpoints for it:
//
//	GET <specPath>.json  - application/json
//	GET <specPath>.yaml  - text/plain
//
// The routes registered by Publish are not part of the document. A non-nil
// scheme is added under SecuritySchemeKey. Each request encodes the
// document afresh, and the two encodings fail independently.
func (s *Spec) Publish(r *mux.Router, specPath string, scheme *SecurityScheme) *Document {
	if scheme != nil {
		s.AddSecurityDefinition(SecuritySchemeKey, scheme)
	}
	doc := s.Generate(r)

	r.HandleFunc(specPath+".json", s.serveDocument(doc, MarshalJSON, "application/json")).
		Methods(http.MethodGet)
	r.HandleFunc(specPath+".yaml", s.serveDocument(doc, MarshalYAML, "text/plain")).
		Methods(http.MethodGet)

	return doc
}

// serveDocument returns a handler that encodes doc on every request.
func (s *Spec) serveDocument(doc *Document, encode func(*Document) ([]byte, error), contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := encode(doc)
		if err != nil {
			s.mu.Lock()
			logger := s.log()
			s.mu.Unlock()
			logger.Error("failed to encode api document", "content_type", contentType, "error", err)
			http.Error(w, "failed to encode api document", http.StatusInternalServerError)
			return
		}
		mux.ResponseBytes(w, http.StatusOK, contentType, data)
	}
}
