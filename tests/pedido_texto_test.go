package tests

import (
	"context"
	"testing"

	"distriverde/internal/dto"
	"distriverde/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearDesdeTexto_ParseaCantidadesYNombres(t *testing.T) {
	svc, pedidoRepo, clienteRepo, productoRepo := buildPedidoSvc()

	cliente := seedCliente(clienteRepo, "Cliente", model.TipoClienteNormal, nil)
	seedProducto(productoRepo, "Tomate", model.TipoVerduleria, 50, 90)
	seedProducto(productoRepo, "Papa", model.TipoVerduleria, 30, 60)
	seedProducto(productoRepo, "Huevo blanco x30", model.TipoHuevo, 3000, 4500)

	resp, err := svc.CrearDesdeTexto(context.Background(), dto.PedidoManualRequest{
		ClienteID: cliente.ID.String(),
		Texto:     "2 tomate\n0,5 papa\nhuevo blanco x30\n",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, model.EstadoConfirmado, resp.Estado)

	// 2×90 + 0.5×60 + 1×4500 = 4710
	stored, _ := pedidoRepo.FindByID(context.Background(), mustUUID(t, resp.ID))
	assert.True(t, stored.MontoTotal.Equal(decimal.NewFromFloat(4710)), "total %s", stored.MontoTotal)
}

func TestCrearDesdeTexto_LineaSinCantidadValeUno(t *testing.T) {
	svc, _, clienteRepo, productoRepo := buildPedidoSvc()

	cliente := seedCliente(clienteRepo, "Cliente", model.TipoClienteNormal, nil)
	seedProducto(productoRepo, "Papa", model.TipoVerduleria, 30, 60)

	resp, err := svc.CrearDesdeTexto(context.Background(), dto.PedidoManualRequest{
		ClienteID: cliente.ID.String(),
		Texto:     "papa",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Cantidad.Equal(decimal.NewFromInt(1)))
}

func TestCrearDesdeTexto_ProductoDesconocidoAbortaTodo(t *testing.T) {
	svc, pedidoRepo, clienteRepo, productoRepo := buildPedidoSvc()

	cliente := seedCliente(clienteRepo, "Cliente", model.TipoClienteNormal, nil)
	seedProducto(productoRepo, "Tomate", model.TipoVerduleria, 50, 90)

	_, err := svc.CrearDesdeTexto(context.Background(), dto.PedidoManualRequest{
		ClienteID: cliente.ID.String(),
		Texto:     "2 tomate\n3 rabanito",
	})
	assert.ErrorContains(t, err, "rabanito")

	// Nothing persisted
	pedidos, _ := pedidoRepo.List(context.Background(), dto.PedidoFilter{Estado: "todos"})
	assert.Empty(t, pedidos)
}

func TestCrearDesdeTexto_IgnoraProductosInactivos(t *testing.T) {
	svc, _, clienteRepo, productoRepo := buildPedidoSvc()

	cliente := seedCliente(clienteRepo, "Cliente", model.TipoClienteNormal, nil)
	viejo := seedProducto(productoRepo, "Lechuga", model.TipoVerduleria, 20, 40)
	viejo.Estado = model.ProductoInactivo

	_, err := svc.CrearDesdeTexto(context.Background(), dto.PedidoManualRequest{
		ClienteID: cliente.ID.String(),
		Texto:     "1 lechuga",
	})
	assert.ErrorContains(t, err, "lechuga")
}

func TestCrearDesdeTexto_ClienteInexistente(t *testing.T) {
	svc, _, _, productoRepo := buildPedidoSvc()
	seedProducto(productoRepo, "Tomate", model.TipoVerduleria, 50, 90)

	_, err := svc.CrearDesdeTexto(context.Background(), dto.PedidoManualRequest{
		ClienteID: "00000000-0000-0000-0000-000000000001",
		Texto:     "1 tomate",
	})
	assert.ErrorContains(t, err, "cliente no encontrado")
}
