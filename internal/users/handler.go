package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/swagger"
)

// Route templates relative to the API router.
const (
	PathUsers    = "/users"
	PathUserByID = "/users/:id"
)

// Handler serves the user endpoints and declares their documentation.
type Handler struct {
	store    *Store
	logger   *slog.Logger
	validate *validator.Validate
	query    *schema.Decoder
}

// NewHandler creates a handler over store. A nil logger uses slog.Default.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	query := schema.NewDecoder()
	query.IgnoreUnknownKeys(true)

	return &Handler{
		store:    store,
		logger:   logger,
		validate: validate,
		query:    query,
	}
}

// fieldName reports fields by their json or query name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "schema"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Register mounts the user routes on api.
func (h *Handler) Register(api *mux.Router) {
	api.Handle(PathUsers, swagger.Bind(h, h.createUser)).Methods(http.MethodPost).Name("createUser")
	api.Handle(PathUserByID, swagger.Bind(h, h.updateUser)).Methods(http.MethodPut).Name("updateUser")
	api.Handle(PathUserByID, swagger.Bind(h, h.deleteUser)).Methods(http.MethodDelete).Name("deleteUser")
	api.Handle(PathUsers, swagger.Bind(h, h.listUsers)).Methods(http.MethodGet).Name("listUsers")
	api.Handle(PathUserByID, swagger.Bind(h, h.getUser)).Methods(http.MethodGet).Name("getUser")
}

// Endpoints documents the user routes. Paths are matched as suffixes, so
// the declarations hold wherever the API router is mounted.
func (h *Handler) Endpoints() []swagger.Endpoint {
	auth := []swagger.SecurityRequirement{swagger.Requirement(swagger.SecuritySchemeKey)}
	failures := []swagger.Reply{
		{Code: http.StatusInternalServerError, Message: "Internal Server Error", Body: Error{}},
		{Code: http.StatusServiceUnavailable, Message: "Service Unavailable"},
	}
	userID := swagger.Param{Name: "id", In: "path", Description: "User ID", Type: "string", Format: "uuid", Required: true}
	body := swagger.Param{Name: "body", In: "body", Required: true, Body: Input{}}

	return []swagger.Endpoint{
		{
			Method:       http.MethodGet,
			Path:         PathUsers,
			Summary:      "Get user list",
			Notes:        "Get the list of users from DB",
			Tags:         []string{"users"},
			Produces:     []string{"application/json"},
			Security:     auth,
			Response:     User{},
			ResponseList: true,
			Responses: append([]swagger.Reply{
				{Code: http.StatusBadRequest, Body: Error{}},
			}, failures...),
			Params: []swagger.Param{
				{Name: "offset", In: "query", Description: "Number of users to skip", Type: "integer", Format: "int32"},
				{Name: "limit", In: "query", Description: fmt.Sprintf("Page size, %d when unset", DefaultLimit), Type: "integer", Format: "int32"},
				{Name: "login", In: "query", Description: "Login prefix filter"},
			},
		},
		{
			Method:   http.MethodPost,
			Path:     PathUsers,
			Summary:  "Create user",
			Notes:    "Creates the user object to DB",
			Tags:     []string{"users"},
			Consumes: []string{"application/json"},
			Produces: []string{"application/json"},
			Security: auth,
			Response: User{},
			Responses: append([]swagger.Reply{
				{Code: http.StatusBadRequest, Body: Error{}},
				{Code: http.StatusConflict, Body: Error{}},
			}, failures...),
			Params: []swagger.Param{body},
		},
		{
			Method:   http.MethodPut,
			Path:     PathUserByID,
			Summary:  "Update user",
			Notes:    "Updates the user object to DB",
			Tags:     []string{"users"},
			Consumes: []string{"application/json"},
			Produces: []string{"application/json"},
			Security: auth,
			Response: User{},
			Responses: append([]swagger.Reply{
				{Code: http.StatusBadRequest, Body: Error{}},
				{Code: http.StatusNotFound, Body: Error{}},
				{Code: http.StatusConflict, Body: Error{}},
			}, failures...),
			Params: []swagger.Param{body, userID},
		},
		{
			Method:   http.MethodDelete,
			Path:     PathUserByID,
			Summary:  "Delete user",
			Notes:    "Deletes the user object from DB",
			Tags:     []string{"users"},
			Security: auth,
			Responses: append([]swagger.Reply{
				{Code: http.StatusNoContent},
				{Code: http.StatusNotFound, Body: Error{}},
			}, failures...),
			Params: []swagger.Param{userID},
		},
		{
			Method:   http.MethodGet,
			Path:     PathUserByID,
			Summary:  "Get user",
			Notes:    "Get the user object from DB",
			Tags:     []string{"users"},
			Produces: []string{"application/json"},
			Security: auth,
			Response: User{},
			Responses: append([]swagger.Reply{
				{Code: http.StatusNotFound, Body: Error{}},
			}, failures...),
			Params: []swagger.Param{userID},
		},
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	var q ListQuery
	if err := h.query.Decode(&q, r.URL.Query()); err != nil {
		h.fail(w, r, &badRequest{err: fmt.Errorf("invalid query: %w", err)})
		return
	}
	if err := h.validate.Struct(q); err != nil {
		h.fail(w, r, err)
		return
	}

	mux.ResponseJSON(w, http.StatusOK, h.store.List(q))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := mux.VarGet(r, "id")
	u, err := h.store.Get(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	mux.ResponseJSON(w, http.StatusOK, u)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.store.Create(in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user created", "id", u.ID, "login", u.Login)
	mux.ResponseJSON(w, http.StatusOK, u)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id, _ := mux.VarGet(r, "id")
	u, err := h.store.Update(id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	mux.ResponseJSON(w, http.StatusOK, u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := mux.VarGet(r, "id")
	if err := h.store.Delete(id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeInput(r *http.Request) (Input, error) {
	var in Input
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return Input{}, &badRequest{err: fmt.Errorf("body exceeds %d bytes", maxErr.Limit)}
		}
		return Input{}, &badRequest{err: fmt.Errorf("invalid body: %w", err)}
	}
	if err := h.validate.Struct(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}
