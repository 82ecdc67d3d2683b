package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type planDoc struct {
	ClientID  string            `bson:"_id"`
	Days      weekplan.WeekPlan `bson:"days"`
	Version   int               `bson:"version"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func (d planDoc) toStored(clientID uuid.UUID) *storage.StoredPlan {
	return &storage.StoredPlan{
		ClientID:  clientID,
		Plan:      d.Days,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *MongoStorage) GetPlan(ctx context.Context, clientID uuid.UUID) (*storage.StoredPlan, error) {
	var doc planDoc
	err := m.plans.FindOne(ctx, bson.M{"_id": clientID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week plan: %w", err)
	}
	return doc.toStored(clientID), nil
}

// ReplacePlan relies on single-document atomicity: the version check is part
// of the update filter, so two racing saves cannot both match.
func (m *MongoStorage) ReplacePlan(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*storage.StoredPlan, error) {
	if err := storage.CheckPlan(plan); err != nil {
		return nil, err
	}

	n, err := m.clients.CountDocuments(ctx, bson.M{"_id": clientID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to check client: %w", err)
	}
	if n == 0 {
		return nil, storage.ErrNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	id := clientID.String()

	if expectedVersion != nil && *expectedVersion == 0 {
		doc := planDoc{ClientID: id, Days: plan, Version: 1, UpdatedAt: now}
		if _, err := m.plans.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("%w: expected 0, plan already exists", storage.ErrVersionConflict)
			}
			return nil, fmt.Errorf("failed to insert week plan: %w", err)
		}
		return doc.toStored(clientID), nil
	}

	filter := bson.M{"_id": id}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	} else {
		opts.SetUpsert(true)
	}

	update := bson.M{
		"$set": bson.M{"days": plan, "updated_at": now},
		"$inc": bson.M{"version": 1},
	}

	var doc planDoc
	err = m.plans.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) && expectedVersion != nil {
		return nil, fmt.Errorf("%w: expected %d", storage.ErrVersionConflict, *expectedVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save week plan: %w", err)
	}

	return doc.toStored(clientID), nil
}
