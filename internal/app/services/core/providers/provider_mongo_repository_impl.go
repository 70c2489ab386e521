package providers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProviderMongoRepository struct {
	Collection *mongo.Collection
}

func NewProviderMongoRepository(db *mongo.Client, dbName string) contracts.ProviderRepository {
	return &ProviderMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionProviders),
	}
}

func (r *ProviderMongoRepository) Create(ctx context.Context, provider *models.Provider) (string, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	provider.CreatedAt = now
	provider.UpdatedAt = now
	if provider.SlotsBooked == nil {
		provider.SlotsBooked = map[string][]string{}
	}
	result, err := r.Collection.InsertOne(ctx, provider)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *ProviderMongoRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	objectID, err := primitive.ObjectIDFromHex(providerID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	var provider models.Provider
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&provider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &provider, nil
}

func (r *ProviderMongoRepository) FindAll(ctx context.Context, onlyAvailable bool) ([]models.Provider, error) {
	filter := bson.M{}
	if onlyAvailable {
		filter["available"] = true
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return providers, nil
}

func (r *ProviderMongoRepository) SetAvailability(ctx context.Context, providerID string, available bool) error {
	objectID, err := primitive.ObjectIDFromHex(providerID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	update := bson.M{"$set": bson.M{
		"available": available,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *ProviderMongoRepository) SetImageURL(ctx context.Context, providerID, imageURL string) error {
	objectID, err := primitive.ObjectIDFromHex(providerID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	update := bson.M{"$set": bson.M{
		"imageUrl":  imageURL,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// TryReserveSlot closes the double-booking race with a single conditional
// update: the label is appended only when the document still matches
// "available and label absent". Under concurrent callers for the same triple
// at most one update matches, the rest observe ModifiedCount == 0.
func (r *ProviderMongoRepository) TryReserveSlot(ctx context.Context, providerID, dateKey, timeLabel string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(providerID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}
	slotPath := "slotsBooked." + dateKey
	filter := bson.M{
		"_id":       objectID,
		"available": true,
		slotPath:    bson.M{"$ne": timeLabel},
	}
	update := bson.M{
		"$addToSet": bson.M{slotPath: timeLabel},
		"$set":      bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())},
	}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *ProviderMongoRepository) ReleaseSlot(ctx context.Context, providerID, dateKey, timeLabel string) error {
	objectID, err := primitive.ObjectIDFromHex(providerID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	slotPath := "slotsBooked." + dateKey
	update := bson.M{
		"$pull": bson.M{slotPath: timeLabel},
		"$set":  bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
