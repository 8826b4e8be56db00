package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// productDocument é o formato persistido: variações embutidas no documento
// do produto, uma por numeração/tamanho.
type productDocument struct {
	ID         string              `bson:"_id"`
	Name       string              `bson:"name"`
	Variations []variationDocument `bson:"variations"`
}

type variationDocument struct {
	SKU       string `bson:"sku"`
	Stock     int32  `bson:"stock"`
	Available bool   `bson:"available"`
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(client *mongo.Client, dbName string) *ProductRepository {
	collection := client.Database(dbName).Collection("products")
	return &ProductRepository{collection: collection}
}

// RestoreStock devolve `quantity` unidades à variação em UMA operação:
// $inc no campo da variação endereçada pelo SKU via arrayFilters.
// Nada de ler o array inteiro, somar em memória e reescrever — era assim
// que duas devoluções concorrentes no mesmo produto se engoliam.
func (r *ProductRepository) RestoreStock(ctx context.Context, productID, sku string, quantity int32) (gateway.RestockResult, error) {
	filter := bson.M{"_id": productID, "variations.sku": sku}
	update := bson.M{
		"$inc": bson.M{"variations.$[v].stock": quantity},
		"$set": bson.M{"variations.$[v].available": true},
	}
	opts := options.FindOneAndUpdate().
		SetArrayFilters([]interface{}{bson.M{"v.sku": sku}}).
		SetReturnDocument(options.After)

	var doc productDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguir produto ausente de variação ausente para o
			// relatório de itens falhos do cancelamento
			if exists, countErr := r.productExists(ctx, productID); countErr == nil && !exists {
				return gateway.RestockResult{}, domain.ErrProductNotFound
			}
			return gateway.RestockResult{}, domain.ErrVariationNotFound
		}
		return gateway.RestockResult{}, fmt.Errorf("failed to restore stock: %w", err)
	}

	for _, v := range doc.Variations {
		if v.SKU == sku {
			return gateway.RestockResult{
				StockBefore: v.Stock - quantity,
				StockAfter:  v.Stock,
			}, nil
		}
	}
	// FindOneAndUpdate casou o filtro, a variação tem que estar no documento
	return gateway.RestockResult{}, domain.ErrVariationNotFound
}

func (r *ProductRepository) productExists(ctx context.Context, productID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
