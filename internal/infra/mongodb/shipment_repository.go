package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type shipmentDocument struct {
	ID          string             `bson:"_id"`
	OrderID     string             `bson:"order_id"`
	CarrierRef  string             `bson:"carrier_ref"`
	Secret      string             `bson:"webhook_secret"`
	Status      string             `bson:"status"`
	History     []trackingEventDoc `bson:"history"`
	DeliveredAt *time.Time         `bson:"delivered_at,omitempty"`
	Version     int64              `bson:"version"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type trackingEventDoc struct {
	Status    string    `bson:"status"`
	Message   string    `bson:"message,omitempty"`
	Location  string    `bson:"location,omitempty"`
	EventTime time.Time `bson:"event_time"`
	Source    string    `bson:"source"`
}

type ShipmentRepository struct {
	collection *mongo.Collection
}

func NewShipmentRepository(client *mongo.Client, dbName string) *ShipmentRepository {
	collection := client.Database(dbName).Collection("shipments")
	return &ShipmentRepository{collection: collection}
}

func (r *ShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	now := time.Now().UTC()
	shipment.CreatedAt = now
	shipment.UpdatedAt = now
	shipment.Version = 1

	if _, err := r.collection.InsertOne(ctx, toShipmentDoc(shipment)); err != nil {
		return fmt.Errorf("failed to insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ShipmentRepository) GetByCarrierRef(ctx context.Context, carrierRef string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"carrier_ref": carrierRef})
}

func (r *ShipmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shipment, error) {
	var doc shipmentDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}
	return toDomainShipment(&doc), nil
}

// Update grava o documento inteiro condicionado à versão lida (concorrência
// otimista): se webhook e poll atualizarem ao mesmo tempo, um dos dois
// recebe ErrVersionConflict e recarrega.
func (r *ShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment, expectedVersion int64) error {
	shipment.Version = expectedVersion + 1
	shipment.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": shipment.ID, "version": expectedVersion},
		toShipmentDoc(shipment))
	if err != nil {
		shipment.Version = expectedVersion
		return fmt.Errorf("failed to update shipment: %w", err)
	}
	if result.MatchedCount == 0 {
		shipment.Version = expectedVersion
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *ShipmentRepository) ListActive(ctx context.Context) ([]domain.Shipment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"status": bson.M{"$nin": []string{
			string(domain.ShipmentStatusDelivered),
			string(domain.ShipmentStatusCanceled),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active shipments: %w", err)
	}
	defer cursor.Close(ctx)

	var shipments []domain.Shipment
	for cursor.Next(ctx) {
		var doc shipmentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode shipment: %w", err)
		}
		shipments = append(shipments, *toDomainShipment(&doc))
	}
	return shipments, cursor.Err()
}

// Mappers: documento <-> domínio

func toShipmentDoc(s *domain.Shipment) *shipmentDocument {
	history := make([]trackingEventDoc, 0, len(s.History))
	for _, e := range s.History {
		history = append(history, trackingEventDoc{
			Status:    e.Status,
			Message:   e.Message,
			Location:  e.Location,
			EventTime: e.EventTime,
			Source:    string(e.Source),
		})
	}
	return &shipmentDocument{
		ID:          s.ID,
		OrderID:     s.OrderID,
		CarrierRef:  s.CarrierRef,
		Secret:      s.Secret,
		Status:      string(s.Status),
		History:     history,
		DeliveredAt: s.DeliveredAt,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toDomainShipment(doc *shipmentDocument) *domain.Shipment {
	history := make([]domain.TrackingEvent, 0, len(doc.History))
	for _, e := range doc.History {
		history = append(history, domain.TrackingEvent{
			Status:    e.Status,
			Message:   e.Message,
			Location:  e.Location,
			EventTime: e.EventTime,
			Source:    domain.EventSource(e.Source),
		})
	}
	return &domain.Shipment{
		ID:          doc.ID,
		OrderID:     doc.OrderID,
		CarrierRef:  doc.CarrierRef,
		Secret:      doc.Secret,
		Status:      domain.ShipmentStatus(doc.Status),
		History:     history,
		DeliveredAt: doc.DeliveredAt,
		Version:     doc.Version,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
