package usecase

import (
	"context"
	"errors"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/google/uuid"
)

type CreateShipmentInput struct {
	OrderID    string
	CarrierRef string
	Secret     string
}

type CreateShipmentOutput struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	CarrierRef string `json:"carrier_ref"`
	Status     string `json:"status"`
}

// CreateShipmentUseCase registra o shipment na compra da etiqueta, com o
// segredo pré-compartilhado do canal de webhook.
type CreateShipmentUseCase struct {
	shipmentRepository gateway.ShipmentRepository
}

func NewCreateShipment(shipmentRepo gateway.ShipmentRepository) *CreateShipmentUseCase {
	return &CreateShipmentUseCase{shipmentRepository: shipmentRepo}
}

func (u *CreateShipmentUseCase) Execute(ctx context.Context, input CreateShipmentInput) (*CreateShipmentOutput, error) {
	if input.OrderID == "" || input.CarrierRef == "" || input.Secret == "" {
		return nil, errors.New("order_id, carrier_ref e secret são obrigatórios")
	}

	shipment := &domain.Shipment{
		ID:         uuid.NewString(),
		OrderID:    input.OrderID,
		CarrierRef: input.CarrierRef,
		Secret:     input.Secret,
		Status:     domain.ShipmentStatusCreated,
	}
	if err := u.shipmentRepository.Create(ctx, shipment); err != nil {
		return nil, err
	}

	return &CreateShipmentOutput{
		ID:         shipment.ID,
		OrderID:    shipment.OrderID,
		CarrierRef: shipment.CarrierRef,
		Status:     string(shipment.Status),
	}, nil
}
