package usecase

import (
	"context"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
)

type TrackingEventOutput struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Location  string `json:"location,omitempty"`
	EventTime string `json:"event_time"`
	Source    string `json:"source"`
}

type GetShipmentOutput struct {
	ID          string                `json:"id"`
	OrderID     string                `json:"order_id"`
	CarrierRef  string                `json:"carrier_ref"`
	Status      string                `json:"status"`
	DeliveredAt *string               `json:"delivered_at,omitempty"`
	History     []TrackingEventOutput `json:"history"`
}

type GetShipmentUseCase struct {
	shipmentRepository gateway.ShipmentRepository
}

func NewGetShipment(shipmentRepo gateway.ShipmentRepository) *GetShipmentUseCase {
	return &GetShipmentUseCase{shipmentRepository: shipmentRepo}
}

func (u *GetShipmentUseCase) Execute(ctx context.Context, shipmentID string) (*GetShipmentOutput, error) {
	shipment, err := u.shipmentRepository.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	history := make([]TrackingEventOutput, 0, len(shipment.History))
	for _, e := range shipment.History {
		history = append(history, TrackingEventOutput{
			Status:    e.Status,
			Message:   e.Message,
			Location:  e.Location,
			EventTime: e.EventTime.UTC().Format(time.RFC3339),
			Source:    string(e.Source),
		})
	}

	var deliveredAt *string
	if shipment.DeliveredAt != nil {
		s := shipment.DeliveredAt.UTC().Format(time.RFC3339)
		deliveredAt = &s
	}

	return &GetShipmentOutput{
		ID:          shipment.ID,
		OrderID:     shipment.OrderID,
		CarrierRef:  shipment.CarrierRef,
		Status:      string(shipment.Status),
		DeliveredAt: deliveredAt,
		History:     history,
	}, nil
}
