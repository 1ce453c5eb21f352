package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/queue"
	"github.com/emrgen/shazam/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "secret"

type testServer struct {
	t       *testing.T
	handler http.Handler
	project string
}

func newTestServer(t *testing.T) *testServer {
	schema := host.NewMapSchema(
		host.Field{Name: "intro", Form: "demographics", ElementType: host.ElementDescriptive, Label: "<b>Welcome</b> to the study"},
		host.Field{Name: "outro", Form: "followup", ElementType: host.ElementDescriptive},
		host.Field{Name: "age", Form: "demographics", ElementType: "text"},
	)
	api := NewAPI(store.NewDefaultProvider(store.NewMemoryStore()), host.NewStaticProvider(schema), queue.NewLogPublisher(), true)

	return &testServer{
		t:       t,
		handler: NewHandler(api, testToken),
		project: uuid.New().String(),
	}
}

func (s *testServer) do(method, path string, actor host.Actor, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "/v1/projects/"+s.project+path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set(HeaderUser, actor.Username)
	req.Header.Set(HeaderSuperUser, strconv.FormatBool(actor.Privileged))

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type configBody struct {
	Config          map[string]json.RawMessage `json:"config"`
	Index           map[string][]string        `json:"index"`
	AvailableFields []host.AvailableField      `json:"available_fields"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (s *testServer) field(actor host.Actor, name string) model.FieldOverride {
	s.t.Helper()
	rec := s.do(http.MethodGet, "/config", actor, nil)
	require.Equal(s.t, http.StatusOK, rec.Code)

	body := decode[configBody](s.t, rec)
	var field model.FieldOverride
	require.NoError(s.t, json.Unmarshal(body.Config[name], &field))
	return field
}

var (
	alice = host.Actor{Username: "alice"}
	admin = host.Actor{Username: "admin", Privileged: true}
)

func TestServer_Authentication(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/"+s.project+"/config", nil)
	req.Header.Set(HeaderUser, "alice")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/config", host.Actor{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_InvalidProject(t *testing.T) {
	s := newTestServer(t)
	s.project = "not-a-uuid"

	rec := s.do(http.MethodGet, "/config", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_FieldLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/config", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[configBody](t, rec)
	assert.Empty(t, body.Config)
	assert.Equal(t, []host.AvailableField{
		{Name: "intro", Form: "demographics", Label: "Welcome_to_the_study"},
		{Name: "outro", Form: "followup", Label: ""},
	}, body.AvailableFields)

	rec = s.do(http.MethodPost, "/fields/intro", alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decode[configBody](t, rec)
	assert.Equal(t, map[string][]string{"demographics": {"intro"}}, body.Index)
	assert.Len(t, body.AvailableFields, 1)

	rec = s.do(http.MethodPost, "/fields/intro", alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/fields/intro/deactivate", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[configBody](t, rec).Index)

	rec = s.do(http.MethodPost, "/fields/outro/activate", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/fields/intro", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode[configBody](t, rec).Config, "intro")

	rec = s.do(http.MethodGet, "/backups", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	backups := decode[struct {
		Backups []struct {
			Timestamp int64  `json:"timestamp"`
			Name      string `json:"name"`
		} `json:"backups"`
	}](t, rec).Backups
	require.NotEmpty(t, backups)
	assert.Contains(t, backups[0].Name, "Deleted intro (alice)")
}

func TestServer_SubmitFieldJavascript(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/fields/intro", admin, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPut, "/fields/intro", admin, map[string]any{
		"html":       "<p>hi</p>",
		"javascript": "console.log('old')",
		"comment":    "set up",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, "/fields/intro", alice, map[string]any{
		"html":       "<p>hello</p>",
		"javascript": "alert(1)",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	field := s.field(alice, "intro")
	assert.Equal(t, "<p>hello</p>", field.HTML)
	assert.Equal(t, "console.log('old')", field.JavaScript)

	rec = s.do(http.MethodPut, "/fields/intro", admin, map[string]any{
		"html":       "<p>hello</p>",
		"javascript": "alert(1)",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alert(1)", s.field(alice, "intro").JavaScript)

	rec = s.do(http.MethodPut, "/fields/intro", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Activations(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/fields/intro", alice, nil).Code)
	rec := s.do(http.MethodPut, "/fields/intro", alice, map[string]any{
		"html": `<div data-shazam-mirror-visibility="x" onclick="steal()">hi</div>`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/forms/demographics/activations", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Activations []struct {
			FieldName string `json:"field_name"`
			HTML      string `json:"html"`
		} `json:"activations"`
	}](t, rec)
	require.Len(t, body.Activations, 1)
	assert.Equal(t, "intro", body.Activations[0].FieldName)
	assert.Equal(t, `<div data-shazam-mirror-visibility="x">hi</div>`, body.Activations[0].HTML)
}

func TestServer_Restore(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/fields/intro", alice, nil).Code)

	rec := s.do(http.MethodPost, "/backups/42/restore", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/backups/yesterday/restore", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_JavascriptEditors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/js-editors/bob", alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/js-editors/alice", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"alice"}, decode[EditorsResponse](t, rec).Users)

	// alice may now edit javascript
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/fields/intro", alice, nil).Code)
	rec = s.do(http.MethodPut, "/fields/intro", alice, map[string]any{"javascript": "run()"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run()", s.field(alice, "intro").JavaScript)

	rec = s.do(http.MethodDelete, "/js-editors/alice", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[EditorsResponse](t, rec).Users)

	rec = s.do(http.MethodGet, "/js-editors", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[EditorsResponse](t, rec).Users)
}
