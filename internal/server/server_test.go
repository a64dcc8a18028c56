package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	analyticsH "github.com/fekuna/stockflow-service/internal/analytics/handler"
	analyticsRepo "github.com/fekuna/stockflow-service/internal/analytics/repository"
	analyticsUC "github.com/fekuna/stockflow-service/internal/analytics/usecase"
	"github.com/fekuna/stockflow-service/internal/events"
	fieldH "github.com/fekuna/stockflow-service/internal/field/handler"
	fieldRepo "github.com/fekuna/stockflow-service/internal/field/repository"
	fieldUC "github.com/fekuna/stockflow-service/internal/field/usecase"
	folderH "github.com/fekuna/stockflow-service/internal/folder/handler"
	folderRepo "github.com/fekuna/stockflow-service/internal/folder/repository"
	folderUC "github.com/fekuna/stockflow-service/internal/folder/usecase"
	"github.com/fekuna/stockflow-service/internal/logger"
	productH "github.com/fekuna/stockflow-service/internal/product/handler"
	productRepo "github.com/fekuna/stockflow-service/internal/product/repository"
	productUC "github.com/fekuna/stockflow-service/internal/product/usecase"
	sessionH "github.com/fekuna/stockflow-service/internal/session/handler"
	sessionRepo "github.com/fekuna/stockflow-service/internal/session/repository"
	sessionUC "github.com/fekuna/stockflow-service/internal/session/usecase"
	"github.com/fekuna/stockflow-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminUser = "admin"
	adminPass = "s3cret-pass"
)

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T) *client {
	t.Helper()
	db := testutil.NewDB(t)
	log := logger.NewNop()
	pub := events.Nop()

	sessions := sessionUC.NewSessionUseCase(sessionRepo.NewSQLRepository(db), time.Hour, log)
	_, err := sessions.EnsureAdmin(context.Background(), adminUser, adminPass)
	require.NoError(t, err)

	h := &Handlers{
		Session:   sessionH.NewSessionHandler(sessions, log),
		Analytics: analyticsH.NewAnalyticsHandler(analyticsUC.NewAnalyticsUseCase(analyticsRepo.NewSQLRepository(db), log), log),
		Folder:    folderH.NewFolderHandler(folderUC.NewFolderUseCase(folderRepo.NewSQLRepository(db), pub, log), log),
		Field:     fieldH.NewFieldHandler(fieldUC.NewFieldUseCase(fieldRepo.NewSQLRepository(db), pub, log), log),
		Product:   productH.NewProductHandler(productUC.NewProductUseCase(productRepo.NewSQLRepository(db), pub, log), log),
	}

	srv := httptest.NewServer(NewRouter(h, sessions, log))
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

func (c *client) do(method, path, token string, body any, out any) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (c *client) login() string {
	c.t.Helper()
	var out struct {
		Token     string    `json:"token"`
		Username  string    `json:"username"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	resp := c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": adminUser, "password": adminPass}, &out)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(c.t, out.Token)
	assert.Equal(c.t, adminUser, out.Username)
	return out.Token
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestCreateFolder_RequiresSession(t *testing.T) {
	c := newClient(t)
	payload := map[string]string{"name": "Warehouse A"}

	var e errorBody
	resp := c.do(http.MethodPost, "/folders", "", payload, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_REQUIRED", e.Code)

	resp = c.do(http.MethodPost, "/folders", "not-a-token", payload, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", e.Code)

	token := c.login()
	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	resp = c.do(http.MethodPost, "/folders", token, payload, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Warehouse A", created.Name)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestLogin_WrongPassword(t *testing.T) {
	c := newClient(t)

	var e errorBody
	resp := c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": adminUser, "password": "nope"}, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", e.Code)

	var e2 errorBody
	c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "ghost", "password": "nope"}, &e2)
	assert.Equal(t, e, e2)
}

func TestVerifyAndLogout(t *testing.T) {
	c := newClient(t)
	token := c.login()

	var v struct {
		Valid    bool   `json:"valid"`
		Username string `json:"username"`
	}
	c.do(http.MethodGet, "/auth/verify", token, nil, &v)
	assert.True(t, v.Valid)
	assert.Equal(t, adminUser, v.Username)

	for i := 0; i < 2; i++ {
		var m struct{ Message string }
		resp := c.do(http.MethodPost, "/auth/logout", token, nil, &m)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Logged out successfully", m.Message)
	}
	resp := c.do(http.MethodPost, "/auth/logout", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	v.Valid, v.Username = true, ""
	c.do(http.MethodGet, "/auth/verify", token, nil, &v)
	assert.False(t, v.Valid)

	var e errorBody
	resp = c.do(http.MethodPost, "/folders", token, map[string]string{"name": "x"}, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", e.Code)
}

func TestWarehouseScenario(t *testing.T) {
	c := newClient(t)
	token := c.login()

	var folder struct{ ID int64 }
	resp := c.do(http.MethodPost, "/folders", token, map[string]string{"name": "Warehouse A"}, &folder)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var qty struct {
		ID        int64  `json:"id"`
		FieldType string `json:"field_type"`
	}
	resp = c.do(http.MethodPost, "/fields", token, map[string]any{"folder_id": folder.ID, "name": "Qty", "type": "number"}, &qty)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "number", qty.FieldType)

	key := strconv.FormatInt(qty.ID, 10)
	for _, p := range []struct {
		name string
		qty  int
	}{{"Widget", 5}, {"Gadget", 3}} {
		resp = c.do(http.MethodPost, "/products", token, map[string]any{
			"folder_id": folder.ID,
			"name":      p.name,
			"values":    map[string]any{key: p.qty},
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	folderPath := "/analytics/folder/" + strconv.FormatInt(folder.ID, 10)

	var names []string
	c.do(http.MethodGet, folderPath+"/metrics", "", nil, &names)
	assert.Equal(t, []string{"Qty"}, names)

	var series struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
		Total  float64   `json:"total"`
	}
	resp = c.do(http.MethodGet, folderPath+"/data?metric=Qty", "", nil, &series)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Widget", "Gadget"}, series.Labels)
	assert.Equal(t, []float64{5, 3}, series.Values)
	assert.Equal(t, float64(8), series.Total)

	c.do(http.MethodGet, "/analytics/data?metric=Qty", "", nil, &series)
	assert.Equal(t, []string{"Warehouse A"}, series.Labels)
	assert.Equal(t, float64(8), series.Total)

	var products []struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Values []struct {
			ID    int64   `json:"id"`
			Value *string `json:"value"`
		} `json:"values"`
	}
	c.do(http.MethodGet, "/products?folder_id="+strconv.FormatInt(folder.ID, 10), "", nil, &products)
	require.Len(t, products, 2)
	require.Len(t, products[0].Values, 1)
	assert.Equal(t, "5", *products[0].Values[0].Value)

	productPath := "/products/" + strconv.FormatInt(products[1].ID, 10)
	resp = c.do(http.MethodPut, productPath, token, map[string]any{"values": map[string]any{key: "4"}}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	c.do(http.MethodGet, folderPath+"/data?metric=Qty", "", nil, &series)
	assert.Equal(t, float64(9), series.Total)

	var m struct{ Message string }
	resp = c.do(http.MethodDelete, "/folders/"+strconv.FormatInt(folder.ID, 10), token, nil, &m)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Folder deleted", m.Message)

	var fields []any
	resp = c.do(http.MethodGet, "/fields?folder_id="+strconv.FormatInt(folder.ID, 10), "", nil, &fields)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, fields)

	products = nil
	c.do(http.MethodGet, "/products?folder_id="+strconv.FormatInt(folder.ID, 10), "", nil, &products)
	assert.Empty(t, products)
}

func TestErrorMapping(t *testing.T) {
	c := newClient(t)
	token := c.login()

	var e errorBody
	resp := c.do(http.MethodPut, "/folders/999", token, map[string]string{"name": "x"}, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)

	resp = c.do(http.MethodDelete, "/folders/abc", token, nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", e.Code)

	resp = c.do(http.MethodGet, "/fields", "", nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var folder struct{ ID int64 }
	c.do(http.MethodPost, "/folders", token, map[string]string{"name": "A"}, &folder)
	resp = c.do(http.MethodPost, "/fields", token, map[string]any{"folder_id": folder.ID, "name": "When", "type": "date"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, e.Error, "invalid field type")
}

func TestCreate_AcceptsStringFolderID(t *testing.T) {
	c := newClient(t)
	token := c.login()

	var folder struct{ ID int64 }
	c.do(http.MethodPost, "/folders", token, map[string]string{"name": "Warehouse A"}, &folder)
	folderID := strconv.FormatInt(folder.ID, 10)

	var qty struct {
		ID       int64 `json:"id"`
		FolderID int64 `json:"folder_id"`
	}
	resp := c.do(http.MethodPost, "/fields", token, map[string]any{"folder_id": folderID, "name": "Qty", "type": "number"}, &qty)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, folder.ID, qty.FolderID)

	var widget struct {
		ID       int64 `json:"id"`
		FolderID int64 `json:"folder_id"`
	}
	resp = c.do(http.MethodPost, "/products", token, map[string]any{
		"folder_id": folderID,
		"name":      "Widget",
		"values":    map[string]any{strconv.FormatInt(qty.ID, 10): "5"},
	}, &widget)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, folder.ID, widget.FolderID)

	var series struct{ Total float64 }
	c.do(http.MethodGet, "/analytics/folder/"+folderID+"/data?metric=Qty", "", nil, &series)
	assert.Equal(t, float64(5), series.Total)

	for _, path := range []string{"/fields", "/products"} {
		var e errorBody
		resp = c.do(http.MethodPost, path, token, map[string]any{"folder_id": "abc", "name": "X", "type": "number"}, &e)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "VALIDATION_ERROR", e.Code, path)
		assert.Equal(t, "invalid folder_id", e.Error, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	c := newClient(t)

	req, err := http.NewRequest(http.MethodOptions, c.srv.URL+"/folders", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := c.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRecoverAndRequestID(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := withRecover(logger.NewNop(), withRequestID(panicky))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, "error", levelForStatus(503).String())
	assert.Equal(t, "warn", levelForStatus(404).String())
	assert.Equal(t, "info", levelForStatus(201).String())
}
