package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/index"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/queue"
	"github.com/emrgen/shazam/internal/service"
	"github.com/emrgen/shazam/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConfigResponse is returned by every endpoint that reads or changes the config.
type ConfigResponse struct {
	Config          *model.ConfigDocument `json:"config"`
	Index           index.FieldIndex      `json:"index"`
	AvailableFields []host.AvailableField `json:"available_fields"`
}

type ActivationsResponse struct {
	Activations []service.Activation `json:"activations"`
}

type BackupsResponse struct {
	Backups []service.BackupEntry `json:"backups"`
}

type EditorsResponse struct {
	Users []string `json:"users"`
}

// SubmitFieldRequest is the body of a field edit.
type SubmitFieldRequest struct {
	service.FieldSubmission
	Comment string `json:"comment"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// API serves the config of every project.
type API struct {
	settings  store.SettingsProvider
	schemas   host.SchemaProvider
	publisher queue.Publisher
	grants    bool
	opts      []service.Option
}

func NewAPI(settings store.SettingsProvider, schemas host.SchemaProvider, publisher queue.Publisher, grants bool, opts ...service.Option) *API {
	return &API{
		settings:  settings,
		schemas:   schemas,
		publisher: publisher,
		grants:    grants,
		opts:      opts,
	}
}

// Routes registers the API on mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/projects/{project}/config", a.handle(a.getConfig))
	mux.HandleFunc("GET /v1/projects/{project}/forms/{form}/activations", a.handle(a.getActivations))
	mux.HandleFunc("GET /v1/projects/{project}/backups", a.handle(a.listBackups))
	mux.HandleFunc("POST /v1/projects/{project}/backups/{ts}/restore", a.handle(a.restoreBackup))
	mux.HandleFunc("POST /v1/projects/{project}/fields/{field}", a.handle(a.createField))
	mux.HandleFunc("PUT /v1/projects/{project}/fields/{field}", a.handle(a.submitField))
	mux.HandleFunc("DELETE /v1/projects/{project}/fields/{field}", a.handle(a.deleteField))
	mux.HandleFunc("POST /v1/projects/{project}/fields/{field}/activate", a.handle(a.activateField))
	mux.HandleFunc("POST /v1/projects/{project}/fields/{field}/deactivate", a.handle(a.deactivateField))
	mux.HandleFunc("GET /v1/projects/{project}/js-editors", a.handle(a.listEditors))
	mux.HandleFunc("POST /v1/projects/{project}/js-editors/{user}", a.handle(a.grantEditor))
	mux.HandleFunc("DELETE /v1/projects/{project}/js-editors/{user}", a.handle(a.revokeEditor))
}

// request holds the per request collaborators of one project.
type request struct {
	*http.Request
	projectID uuid.UUID
	schema    *host.MapSchema
	editor    *service.Editor
	editors   *service.JavascriptEditors
}

type handlerFunc func(w http.ResponseWriter, r *request) error

var errBadRequest = errors.New("bad request")

func (a *API) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := a.newRequest(r)
		if err == nil {
			err = h(w, req)
		}
		if err != nil {
			writeError(w, err)
		}
	}
}

func (a *API) newRequest(r *http.Request) (*request, error) {
	projectID, err := uuid.Parse(r.PathValue("project"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", errBadRequest)
	}

	settings, err := a.settings.Provide(projectID)
	if err != nil {
		return nil, err
	}
	schema, err := a.schemas.Schema(projectID)
	if err != nil {
		return nil, err
	}

	actor := actorFromContext(r.Context())
	session := service.NewConfigSession(settings, schema, actor, a.opts...)
	editors := service.NewJavascriptEditors(settings, actor, a.grants)

	return &request{
		Request:   r,
		projectID: projectID,
		schema:    schema,
		editor:    service.NewEditor(projectID, session, editors, a.publisher),
		editors:   editors,
	}, nil
}

func (a *API) getConfig(w http.ResponseWriter, r *request) error {
	if err := r.editor.Session().Load(r.Context()); err != nil {
		return err
	}
	writeConfig(w, http.StatusOK, r)
	return nil
}

func (a *API) getActivations(w http.ResponseWriter, r *request) error {
	session := r.editor.Session()
	if err := session.Load(r.Context()); err != nil {
		return err
	}

	activations, err := service.Activations(session, r.PathValue("form"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, ActivationsResponse{Activations: activations})
	return nil
}

func (a *API) listBackups(w http.ResponseWriter, r *request) error {
	session := r.editor.Session()
	if err := session.Load(r.Context()); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, BackupsResponse{Backups: service.BackupEntries(session.Backups())})
	return nil
}

func (a *API) restoreBackup(w http.ResponseWriter, r *request) error {
	ts, err := strconv.ParseInt(r.PathValue("ts"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid backup timestamp", errBadRequest)
	}

	if err := r.editor.Restore(r.Context(), ts); err != nil {
		return err
	}

	writeConfig(w, http.StatusOK, r)
	return nil
}

func (a *API) createField(w http.ResponseWriter, r *request) error {
	if err := r.editor.CreateField(r.Context(), r.PathValue("field")); err != nil {
		return err
	}
	writeConfig(w, http.StatusCreated, r)
	return nil
}

func (a *API) submitField(w http.ResponseWriter, r *request) error {
	var body SubmitFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	if err := r.editor.SubmitField(r.Context(), r.PathValue("field"), body.FieldSubmission, body.Comment); err != nil {
		return err
	}

	writeConfig(w, http.StatusOK, r)
	return nil
}

func (a *API) deleteField(w http.ResponseWriter, r *request) error {
	if err := r.editor.DeleteField(r.Context(), r.PathValue("field")); err != nil {
		return err
	}
	writeConfig(w, http.StatusOK, r)
	return nil
}

func (a *API) activateField(w http.ResponseWriter, r *request) error {
	if err := r.editor.ActivateField(r.Context(), r.PathValue("field")); err != nil {
		return err
	}
	writeConfig(w, http.StatusOK, r)
	return nil
}

func (a *API) deactivateField(w http.ResponseWriter, r *request) error {
	if err := r.editor.DeactivateField(r.Context(), r.PathValue("field")); err != nil {
		return err
	}
	writeConfig(w, http.StatusOK, r)
	return nil
}

func (a *API) listEditors(w http.ResponseWriter, r *request) error {
	return writeEditors(w, r)
}

func (a *API) grantEditor(w http.ResponseWriter, r *request) error {
	if err := r.editor.GrantJavascript(r.Context(), r.PathValue("user")); err != nil {
		return err
	}
	return writeEditors(w, r)
}

func (a *API) revokeEditor(w http.ResponseWriter, r *request) error {
	if err := r.editor.RevokeJavascript(r.Context(), r.PathValue("user")); err != nil {
		return err
	}
	return writeEditors(w, r)
}

func writeConfig(w http.ResponseWriter, status int, r *request) {
	session := r.editor.Session()
	doc := session.Document()

	writeJSON(w, status, ConfigResponse{
		Config:          doc,
		Index:           session.Index(),
		AvailableFields: host.AvailableFields(r.schema, doc.Has),
	})
}

func writeEditors(w http.ResponseWriter, r *request) error {
	users, err := r.editors.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, EditorsResponse{Users: users})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("error writing response: %v", err)
	}
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrBackupNotFound),
		errors.Is(err, service.ErrFieldNotFound),
		errors.Is(err, host.ErrDictionaryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrFieldExists):
		status = http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, model.ErrInvalidDocument):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logrus.Errorf("request failed: %v", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
