package tests

import (
	"context"
	"testing"

	"distriverde/internal/dto"
	"distriverde/internal/model"
	"distriverde/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductoSvc() (service.ProductoService, *stubProductoRepo, *stubPedidoRepo, *stubClienteRepo) {
	clienteRepo := newStubClienteRepo()
	productoRepo := newStubProductoRepo()
	pedidoRepo := newStubPedidoRepo(clienteRepo, productoRepo)
	svc := service.NewProductoService(productoRepo, pedidoRepo)
	return svc, productoRepo, pedidoRepo, clienteRepo
}

func TestCrearProducto_VerduleriaSinStock(t *testing.T) {
	svc, productoRepo, _, _ := buildProductoSvc()

	precio := decimal.NewFromFloat(90)
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:        "Tomate",
		Tipo:          model.TipoVerduleria,
		PrecioCosto:   decimal.NewFromFloat(50),
		PrecioVenta:   &precio,
		StockCantidad: 99, // must be ignored for produce
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StockCantidad)

	stored, _ := productoRepo.FindByID(context.Background(), mustUUID(t, resp.ID))
	assert.Equal(t, 0, stored.StockCantidad)
}

func TestAjustarStock_SoloHuevos(t *testing.T) {
	svc, productoRepo, _, _ := buildProductoSvc()

	huevo := seedProducto(productoRepo, "Huevo blanco x30", model.TipoHuevo, 3000, 4500)
	tomate := seedProducto(productoRepo, "Tomate", model.TipoVerduleria, 50, 90)

	resp, err := svc.AjustarStock(context.Background(), huevo.ID, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, resp.StockCantidad)

	_, err = svc.AjustarStock(context.Background(), tomate.ID, 10)
	assert.ErrorContains(t, err, "huevo")
}

func TestArchivarYReactivarProducto(t *testing.T) {
	svc, productoRepo, _, _ := buildProductoSvc()

	p := seedProducto(productoRepo, "Tomate", model.TipoVerduleria, 50, 90)

	require.NoError(t, svc.Archivar(context.Background(), p.ID))
	stored, _ := productoRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, model.ProductoInactivo, stored.Estado)

	require.NoError(t, svc.Reactivar(context.Background(), p.ID))
	stored, _ = productoRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, model.ProductoActivo, stored.Estado)
}

// ── Price sync ────────────────────────────────────────────────────────────────

func TestSincronizarPrecios_RepreciaConfirmados(t *testing.T) {
	svc, productoRepo, pedidoRepo, clienteRepo := buildProductoSvc()

	cliente := seedCliente(clienteRepo, "Cliente", model.TipoClienteNormal, nil)
	tomate := seedProducto(productoRepo, "Tomate", model.TipoVerduleria, 50, 90)

	// Order captured at the old price of 70
	ped := seedPedido(pedidoRepo, cliente, model.EstadoConfirmado, item(tomate, 2, 70))

	resp, err := svc.SincronizarPrecios(context.Background())
	require.NoError(t, err)
	assert.Contains(t, resp.Mensaje, "sincronizados")

	stored, _ := pedidoRepo.FindByID(context.Background(), ped.ID)
	assert.True(t, stored.Items[0].PrecioUnitario.Equal(decimal.NewFromFloat(90)))
	assert.True(t, stored.MontoTotal.Equal(decimal.NewFromFloat(180)), "total %s", stored.MontoTotal)
}

func TestSincronizarPrecios_FallaConPreciosFaltantes(t *testing.T) {
	svc, productoRepo, _, _ := buildProductoSvc()

	sinPrecio := &model.Producto{
		Nombre:      "Zapallo",
		Tipo:        model.TipoVerduleria,
		PrecioCosto: decimal.NewFromFloat(30),
		Estado:      model.ProductoActivo,
	}
	require.NoError(t, productoRepo.Create(context.Background(), sinPrecio))

	_, err := svc.SincronizarPrecios(context.Background())
	assert.ErrorContains(t, err, "Zapallo")
}

func TestAjustarYSincronizar_CompletaPreciosYSincroniza(t *testing.T) {
	svc, productoRepo, pedidoRepo, clienteRepo := buildProductoSvc()

	cliente := seedCliente(clienteRepo, "Cliente", model.TipoClienteNormal, nil)
	sinPrecio := &model.Producto{
		Nombre:      "Zapallo",
		Tipo:        model.TipoVerduleria,
		PrecioCosto: decimal.NewFromFloat(30),
		Estado:      model.ProductoActivo,
	}
	require.NoError(t, productoRepo.Create(context.Background(), sinPrecio))
	ped := seedPedido(pedidoRepo, cliente, model.EstadoConfirmado, item(sinPrecio, 3, 25))

	resp, err := svc.AjustarYSincronizar(context.Background(), dto.AjustarYSincronizarRequest{
		ProductoIDs: []string{sinPrecio.ID.String()},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Mensaje, "1 precios ajustados")

	// Sale price backfilled from cost, then the order repriced: 3×30 = 90
	stored, _ := pedidoRepo.FindByID(context.Background(), ped.ID)
	assert.True(t, stored.Items[0].PrecioUnitario.Equal(decimal.NewFromFloat(30)))
	assert.True(t, stored.MontoTotal.Equal(decimal.NewFromFloat(90)))
}
