package service

import (
	"fmt"
	"strings"

	"distriverde/internal/model"

	"github.com/shopspring/decimal"
)

// lineaPedido is one parsed entry of a pasted order.
type lineaPedido struct {
	Producto model.Producto
	Cantidad decimal.Decimal
}

// parsePedidoTexto turns a pasted free-form order into product lines.
//
// Each non-empty line is "<cantidad> <producto>" where the quantity is an
// optional leading decimal ("2", "0.5", "1,5"). A line without a quantity
// means one unit. Product names match case-insensitively against the
// catalog. Any unmatched line aborts the whole parse so a typo never
// silently drops part of an order.
func parsePedidoTexto(texto string, catalogo []model.Producto) ([]lineaPedido, error) {
	porNombre := make(map[string]model.Producto, len(catalogo))
	for _, p := range catalogo {
		porNombre[strings.ToLower(p.Nombre)] = p
	}

	var lineas []lineaPedido
	var desconocidos []string

	for _, raw := range strings.Split(texto, "\n") {
		linea := strings.TrimSpace(raw)
		if linea == "" {
			continue
		}

		cantidad := decimal.NewFromInt(1)
		nombre := linea

		campos := strings.Fields(linea)
		if len(campos) > 1 {
			posible := strings.ReplaceAll(campos[0], ",", ".")
			if q, err := decimal.NewFromString(posible); err == nil && q.IsPositive() {
				cantidad = q
				nombre = strings.TrimSpace(strings.TrimPrefix(linea, campos[0]))
			}
		}

		p, ok := porNombre[strings.ToLower(nombre)]
		if !ok {
			desconocidos = append(desconocidos, nombre)
			continue
		}
		lineas = append(lineas, lineaPedido{Producto: p, Cantidad: cantidad})
	}

	if len(desconocidos) > 0 {
		return nil, fmt.Errorf("productos no reconocidos: %s", strings.Join(desconocidos, ", "))
	}
	if len(lineas) == 0 {
		return nil, fmt.Errorf("el texto no contiene ningún producto")
	}
	return lineas, nil
}
