package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ifn-backend/domain/inventory"
	"ifn-backend/infrastructure/config"
	"ifn-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type apiClient struct {
	t       *testing.T
	handler http.Handler
	tokens  map[string]string
}

func newTestAPI(t *testing.T, overrides ...func(*config.Config)) (*Container, *apiClient) {
	t.Helper()
	cfg := &config.Config{
		Environment:        "test",
		SourceDriver:       config.DriverFixtures,
		JWTSecret:          testSecret,
		JWTIssuer:          "ifn-backend",
		RateLimitPerMinute: 1000,
		LogLevel:           "error",
		EnableMetrics:      true,
	}
	for _, override := range overrides {
		override(cfg)
	}

	container, cleanup, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	gen, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{SecretKey: testSecret, Issuer: "ifn-backend"})
	require.NoError(t, err)
	tokens := make(map[string]string)
	for user, role := range map[string]string{"brigadista-1": auth.RoleBrigadista, "encargado-1": auth.RoleEncargado} {
		token, err := gen.GenerateToken(user, user+"@ifn.example", []string{role})
		require.NoError(t, err)
		tokens[role] = token
	}

	return container, &apiClient{t: t, handler: container.Router.Setup(), tokens: tokens}
}

func (c *apiClient) do(role, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens[role]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func dataOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return data
}

func TestContainer_WiresFixtures(t *testing.T) {
	container, _ := newTestAPI(t)

	store, err := container.Catalog.Store(inventory.Muestras)
	require.NoError(t, err)
	assert.Len(t, store.GetAll(), 7)
	assert.Empty(t, container.Sources.Checks)
	assert.Nil(t, container.Sources.Writer)
}

func TestAPI_HealthIsPublic(t *testing.T) {
	_, api := newTestAPI(t)

	rec, _ := api.do("", http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := api.do("", http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	rec, _ = api.do("", http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	_, api := newTestAPI(t)

	rec, body := api.do("", http.MethodGet, "/api/v2/records/muestras", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, body["error"])
}

func TestAPI_ListRecords(t *testing.T) {
	_, api := newTestAPI(t)

	rec, body := api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/records/muestras", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	model := dataOf(t, body)["model"].(map[string]interface{})
	assert.EqualValues(t, 7, model["total_items"])
	assert.EqualValues(t, 2, model["total_pages"])
	assert.EqualValues(t, 1, model["current_page"])
	assert.Len(t, model["rows"], 5)

	meta := body["meta"].(map[string]interface{})
	pagination := meta["pagination"].(map[string]interface{})
	assert.EqualValues(t, 7, pagination["total"])
}

func TestAPI_ListRecordsFiltered(t *testing.T) {
	_, api := newTestAPI(t)

	rec, body := api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/records/muestras?category=suelo&page=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	model := dataOf(t, body)["model"].(map[string]interface{})
	assert.EqualValues(t, 3, model["total_items"])
	assert.EqualValues(t, 1, model["total_pages"])
}

func TestAPI_ListRecordsRejects(t *testing.T) {
	_, api := newTestAPI(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown collection", "/api/v2/records/arboles", http.StatusNotFound},
		{"bad date", "/api/v2/records/muestras?date=15-03-2024", http.StatusBadRequest},
		{"bad page", "/api/v2/records/muestras?page=uno", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := api.do(auth.RoleBrigadista, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAPI_ReloadRequiresEncargado(t *testing.T) {
	_, api := newTestAPI(t)

	rec, _ := api.do(auth.RoleBrigadista, http.MethodPost, "/api/v2/records/muestras/reload", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := api.do(auth.RoleEncargado, http.MethodPost, "/api/v2/records/muestras/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "reloaded", dataOf(t, body)["status"])
}

func TestAPI_ImportReplacesCollection(t *testing.T) {
	_, api := newTestAPI(t)

	payload := `[{"id": "ARB-2025-001", "tipo": "arbol", "especie": "Cedrela odorata - Cedro", "ubicacion": "Conglomerado N45, Parcela 01", "fecha": "2025-01-10", "estado": "pendiente"}]`
	rec, _ := api.do(auth.RoleEncargado, http.MethodPost, "/api/v2/records/muestras/import", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/records/muestras", "")
	require.Equal(t, http.StatusOK, rec.Code)
	model := dataOf(t, body)["model"].(map[string]interface{})
	assert.EqualValues(t, 1, model["total_items"])

	rec, _ = api.do(auth.RoleEncargado, http.MethodPost, "/api/v2/records/muestras/import", `[{"tipo": "arbol"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ListViewLifecycle(t *testing.T) {
	_, api := newTestAPI(t)

	rec, body := api.do(auth.RoleBrigadista, http.MethodPost, "/api/v2/listviews", `{"collection": "muestras"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, _ := dataOf(t, body)["id"].(string)
	require.NotEmpty(t, id)
	path := "/api/v2/listviews/" + id

	rec, body = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "next"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := dataOf(t, body)
	assert.Equal(t, true, data["changed"])
	model := data["snapshot"].(map[string]interface{})["model"].(map[string]interface{})
	assert.EqualValues(t, 2, model["current_page"])

	rec, body = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "next"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, dataOf(t, body)["changed"])

	rec, body = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "category", "value": "suelo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	model = dataOf(t, body)["snapshot"].(map[string]interface{})["model"].(map[string]interface{})
	assert.EqualValues(t, 1, model["current_page"])
	assert.EqualValues(t, 3, model["total_items"])

	rec, _ = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "explode"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(auth.RoleEncargado, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do(auth.RoleBrigadista, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(auth.RoleBrigadista, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = api.do(auth.RoleBrigadista, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_SearchAndReport(t *testing.T) {
	_, api := newTestAPI(t)

	rec, body := api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/search?q=norte", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := dataOf(t, body)
	assert.Equal(t, true, results["searched"])
	assert.GreaterOrEqual(t, results["total"], float64(1))

	rec, body = api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/reports/problemas?from=2024-03-12&to=2024-03-14", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 3, dataOf(t, body)["total_incidencias"])

	rec, _ = api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/reports/problemas?from=2024-03-14&to=2024-03-12", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_CollectionsAndLegacyRedirect(t *testing.T) {
	_, api := newTestAPI(t)

	rec, body := api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/collections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, dataOf(t, body)["collections"])

	rec, _ = api.do(auth.RoleBrigadista, http.MethodGet, "/api/v1/collections", "")
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/api/v2/collections", rec.Header().Get("Location"))
}

func openListView(t *testing.T, api *apiClient, collection string) string {
	t.Helper()
	rec, body := api.do(auth.RoleBrigadista, http.MethodPost, "/api/v2/listviews", `{"collection": "`+collection+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, _ := dataOf(t, body)["id"].(string)
	require.NotEmpty(t, id)
	return "/api/v2/listviews/" + id
}

func TestAPI_ListViewSearchBox(t *testing.T) {
	_, api := newTestAPI(t)
	path := openListView(t, api, "muestras")

	rec, body := api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "search_submit", "value": "norte"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := dataOf(t, body)["snapshot"].(map[string]interface{})["search"].(map[string]interface{})
	assert.Equal(t, "norte", results["term"])
	assert.Equal(t, true, results["searched"])

	rec, _ = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "search", "value": "brigada sur"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Eventually(t, func() bool {
		_, body := api.do(auth.RoleBrigadista, http.MethodGet, path, "")
		data, _ := body["data"].(map[string]interface{})
		snapshot, _ := data["snapshot"].(map[string]interface{})
		results, ok := snapshot["search"].(map[string]interface{})
		return ok && results["term"] == "brigada sur"
	}, 3*time.Second, 25*time.Millisecond, "debounced search never published")
}

func TestAPI_FeatureFlags(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "listing.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("enable_stats: false\nenable_search: false\nenable_presets: false\n"), 0o600))
	_, api := newTestAPI(t, func(cfg *config.Config) { cfg.SettingsPath = settings })

	rec, body := api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/search?q=norte", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FEATURE_DISABLED", body["code"])

	rec, body = api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/records/problemas?preset=rango", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FEATURE_DISABLED", body["code"])

	rec, body = api.do(auth.RoleBrigadista, http.MethodGet, "/api/v2/records/muestras", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, dataOf(t, body), "stats")

	path := openListView(t, api, "muestras")
	rec, _ = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "search", "value": "norte"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = api.do(auth.RoleBrigadista, http.MethodPost, path+"/events", `{"type": "preset", "value": "rango"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
