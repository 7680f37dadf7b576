package service

import (
	"context"
	"errors"

	"distriverde/internal/dto"
	"distriverde/internal/model"
	"distriverde/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		NombreCompleto: req.NombreCompleto,
		Telefono:       req.Telefono,
		TipoCliente:    req.TipoCliente,
	}
	// tarifa_flete only makes sense for con_flete clients
	if req.TipoCliente == model.TipoClienteConFlete {
		c.TarifaFlete = req.TarifaFlete
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	c.NombreCompleto = req.NombreCompleto
	c.Telefono = req.Telefono
	c.TipoCliente = req.TipoCliente
	if req.TipoCliente == model.TipoClienteConFlete {
		c.TarifaFlete = req.TarifaFlete
	} else {
		c.TarifaFlete = nil
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("cliente no encontrado")
	}
	n, err := s.repo.CountPedidos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.New("el cliente tiene pedidos asociados y no puede eliminarse")
	}
	return s.repo.Delete(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:             c.ID.String(),
		NombreCompleto: c.NombreCompleto,
		Telefono:       c.Telefono,
		TipoCliente:    c.TipoCliente,
		TarifaFlete:    c.TarifaFlete,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
