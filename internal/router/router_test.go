package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventra/internal/config"
	"inventra/internal/repository/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@inventra.test"
	adminPassword = "admin-pass-123"
)

type testAPI struct {
	t      *testing.T
	engine http.Handler
	admin  string
}

type body struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Fields    map[string]string
	Available int `json:"available"`
	Requested int `json:"requested"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "router-test-secret",
		JWTExpirationHours: 1,
		CORSOrigins:        "*",
	}
	svc := BuildServices(cfg, memory.New().Set(), nil)
	created, err := svc.Auth.EnsureBootstrapAdmin(context.Background(), "Admin", adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	api := &testAPI{t: t, engine: New(cfg, svc, nil, nil)}
	api.admin = api.login(adminEmail, adminPassword)
	return api
}

func (a *testAPI) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(a.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(b.Data, out))
	}
	return b
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(a.t, w, &resp)
	return resp.Token
}

// user creates an account with role and returns its token.
func (a *testAPI) user(name, role string) string {
	a.t.Helper()
	email := strings.ToLower(name) + "@inventra.test"
	w := a.do(http.MethodPost, "/api/admin/users", a.admin, map[string]string{
		"name": name, "email": email, "password": "password-123", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login(email, "password-123")
}

func (a *testAPI) product(sku string, stock, threshold int) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/products", a.admin, map[string]interface{}{
		"name": "Widget " + sku, "sku": sku, "category": "hardware",
		"stock": stock, "price": "2.50", "lowStockThreshold": threshold,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(a.t, w, &p)
	return p.ID
}

func unread(t *testing.T, a *testAPI, token string) int64 {
	t.Helper()
	w := a.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int64 `json:"count"`
	}
	decode(t, w, &resp)
	return resp.Count
}

func TestHealthWithoutBackends(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db":"disabled","redis":"disabled"}`, w.Body.String())
}

func TestLoginAndMe(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w, nil).Success)

	w = a.do(http.MethodGet, "/api/auth/me", a.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	assert.True(t, decode(t, w, &me).Success)
	assert.Equal(t, adminEmail, me.Email)
	assert.Equal(t, "admin", me.Role)
}

func TestRoleGates(t *testing.T) {
	a := newTestAPI(t)
	clerk := a.user("Casey", "clerk")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/manager/validateStock", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/manager/validateStock", clerk, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/manager/validateStock", a.admin, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/products", clerk, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/products", clerk, map[string]string{"name": "x"}).Code)
}

func TestStockInAndOut(t *testing.T) {
	a := newTestAPI(t)
	manager := a.user("Morgan", "manager")
	clerk := a.user("Casey", "clerk")
	id := a.product("WID-1", 5, 10)

	w := a.do(http.MethodPost, "/api/manager/stockIn", manager, map[string]interface{}{"productId": id, "quantity": 20})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var moved struct {
		Product struct {
			PreviousStock int    `json:"previousStock"`
			NewStock      int    `json:"newStock"`
			Status        string `json:"status"`
		} `json:"product"`
		Reference string `json:"reference"`
	}
	decode(t, w, &moved)
	assert.Equal(t, 5, moved.Product.PreviousStock)
	assert.Equal(t, 25, moved.Product.NewStock)
	assert.Equal(t, "in-stock", moved.Product.Status)
	assert.True(t, strings.HasPrefix(moved.Reference, "STOCK-IN-"))
	assert.Equal(t, int64(1), unread(t, a, clerk), "clerks hear about restocks")

	w = a.do(http.MethodPost, "/api/manager/stockOut", manager, map[string]interface{}{"productId": id, "quantity": 100})
	require.Equal(t, http.StatusBadRequest, w.Code)
	b := decode(t, w, nil)
	assert.Equal(t, 25, b.Available)
	assert.Equal(t, 100, b.Requested)

	w = a.do(http.MethodGet, "/api/manager/transactions?type=in", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, w, &list)
	assert.Equal(t, int64(1), list.Pagination.Total)

	w = a.do(http.MethodPost, "/api/manager/stockIn", manager, map[string]interface{}{"productId": "not-a-uuid", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderNotifiesEveryManager(t *testing.T) {
	a := newTestAPI(t)
	m1 := a.user("Morgan", "manager")
	a.user("Max", "manager")
	clerk := a.user("Casey", "clerk")
	id := a.product("WID-2", 2, 10)

	w := a.do(http.MethodPost, "/api/clerk/reorder", clerk, map[string]interface{}{"productId": id})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		RequestedQuantity int `json:"requestedQuantity"`
		NotifiedManagers  int `json:"notifiedManagers"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 18, resp.RequestedQuantity)
	assert.Equal(t, 2, resp.NotifiedManagers)
	assert.Equal(t, int64(1), unread(t, a, m1))
	assert.Equal(t, int64(2), unread(t, a, a.admin), "admin sees the global feed")

	w = a.do(http.MethodPut, "/api/notifications/read-all", m1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), unread(t, a, m1))
}

func TestAuditAndExport(t *testing.T) {
	a := newTestAPI(t)
	auditor := a.user("Avery", "auditor")
	a.product("WID-3", 0, 5)

	w := a.do(http.MethodPost, "/api/auditor/auditInventory", auditor, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/auditor/exportReport?format=csv", auditor, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "audit-report-")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Product,SKU,Issue,Severity,Message"))

	w = a.do(http.MethodGet, "/api/auditor/exportReport?format=doc", auditor, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/auditor/audits/00000000-0000-0000-0000-000000000001", auditor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductValidation(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodPost, "/api/products", a.admin, map[string]interface{}{"sku": "X"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw["fields"], "Name")

	a.product("DUP-1", 1, 1)
	w = a.do(http.MethodPost, "/api/products", a.admin, map[string]interface{}{
		"name": "Other", "sku": "DUP-1", "category": "hardware", "price": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
