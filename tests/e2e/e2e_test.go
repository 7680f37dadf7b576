//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"distriverde/internal/config"
	"distriverde/internal/infra"
	"distriverde/internal/model"
	"distriverde/internal/router"
	"distriverde/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("distriverde_test"),
		tcPostgres.WithUsername("distriverde"),
		tcPostgres.WithPassword("distriverde"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Activo:       true,
	}).Error)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "e2e-password"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, db: db}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full order cycle: catalog → manual order → edit → invoice → pay → reports.
func TestE2E_CicloCompletoDePedido(t *testing.T) {
	env := setupTestEnv(t)

	// Cliente con flete
	cliResp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{
			"nombre_completo": "Reventa Norte",
			"tipo_cliente":    "con_flete",
			"tarifa_flete":    500.0,
		}), env.token)
	require.Equal(t, http.StatusCreated, cliResp.StatusCode)
	var cli struct {
		ID string `json:"id"`
	}
	decodeJSON(t, cliResp, &cli)

	// Productos
	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":       "Tomate",
			"tipo":         "verduleria",
			"precio_costo": 50.0,
			"precio_venta": 90.0,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)

	huevoResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":         "Huevo blanco x30",
			"tipo":           "huevo",
			"precio_costo":   3000.0,
			"precio_venta":   4500.0,
			"stock_cantidad": 100,
		}), env.token)
	require.Equal(t, http.StatusCreated, huevoResp.StatusCode)

	// Manual order from pasted text
	pedResp := do(t, env.server, "POST", "/v1/pedidos/manual",
		jsonBody(t, map[string]any{
			"cliente_id": cli.ID,
			"texto":      "2 tomate\n1 huevo blanco x30",
		}), env.token)
	require.Equal(t, http.StatusCreated, pedResp.StatusCode)
	var ped struct {
		ID    string `json:"id"`
		Items []struct {
			Producto    string `json:"producto"`
			PrecioTotal string `json:"precio_total"`
		} `json:"items"`
		TotalMostrado string `json:"total_mostrado"`
	}
	decodeJSON(t, pedResp, &ped)
	require.Len(t, ped.Items, 2)

	// Con-flete client: detail shows cost-based totals (2×50 + 1×3000 = 3100)
	assert.Equal(t, "3100", ped.TotalMostrado)

	// Egg filter narrows the view
	filtroResp := do(t, env.server, "GET", "/v1/pedidos/"+ped.ID+"?filtro=huevos", nil, env.token)
	require.Equal(t, http.StatusOK, filtroResp.StatusCode)
	var filtrado struct {
		Items []struct {
			Producto string `json:"producto"`
		} `json:"items"`
	}
	decodeJSON(t, filtroResp, &filtrado)
	require.Len(t, filtrado.Items, 1)
	assert.Equal(t, "Huevo blanco x30", filtrado.Items[0].Producto)

	// Invoice and pay
	factResp := do(t, env.server, "POST", "/v1/pedidos/"+ped.ID+"/facturar", nil, env.token)
	require.Equal(t, http.StatusOK, factResp.StatusCode)
	factResp.Body.Close()

	pagarResp := do(t, env.server, "POST", "/v1/pedidos/"+ped.ID+"/pagar", nil, env.token)
	require.Equal(t, http.StatusOK, pagarResp.StatusCode)
	pagarResp.Body.Close()

	// Paying twice is rejected
	rePagarResp := do(t, env.server, "POST", "/v1/pedidos/"+ped.ID+"/pagar", nil, env.token)
	assert.Equal(t, http.StatusConflict, rePagarResp.StatusCode)
	rePagarResp.Body.Close()

	// Consolidado covers the invoiced order
	consResp := do(t, env.server, "GET", "/v1/reportes/consolidado", nil, env.token)
	require.Equal(t, http.StatusOK, consResp.StatusCode)
	var cons struct {
		Items []struct {
			ProductoNombre string `json:"producto_nombre"`
		} `json:"items"`
	}
	decodeJSON(t, consResp, &cons)
	assert.Len(t, cons.Items, 2)

	// KPIs respond
	kpiResp := do(t, env.server, "GET", "/v1/reportes/kpis", nil, env.token)
	require.Equal(t, http.StatusOK, kpiResp.StatusCode)
	kpiResp.Body.Close()
}

// Unauthenticated requests are rejected across the protected surface.
func TestE2E_RutasProtegidas(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/pedidos", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/reportes/deudores", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
