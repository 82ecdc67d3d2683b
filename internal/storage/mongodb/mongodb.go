package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	clientsCollection = "clients"
	plansCollection   = "week_plans"
)

// MongoStorage — MongoDB реализация storage.Storage
type MongoStorage struct {
	client  *mongo.Client
	clients *mongo.Collection
	plans   *mongo.Collection
}

type clientDoc struct {
	ID          string            `bson:"_id"`
	OwnerUserID string            `bson:"owner_user_id"`
	Profile     nutrition.Profile `bson:"profile"`
	Targets     nutrition.Targets `bson:"targets"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at"`
}

func (d clientDoc) toClient() (*storage.Client, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("bad client id %q: %w", d.ID, err)
	}
	return &storage.Client{
		ID:          id,
		OwnerUserID: d.OwnerUserID,
		Profile:     d.Profile,
		Targets:     d.Targets,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// New connects, pings and prepares indexes.
func New(ctx context.Context, uri, database string) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	ms := &MongoStorage{
		client:  client,
		clients: db.Collection(clientsCollection),
		plans:   db.Collection(plansCollection),
	}

	_, err = ms.clients.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		log.Printf("WARN storage: mongodb index creation failed: %v", err)
	}

	return ms, nil
}

func (m *MongoStorage) CreateClient(ctx context.Context, c *storage.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := m.clients.InsertOne(ctx, clientDoc{
		ID:          c.ID.String(),
		OwnerUserID: c.OwnerUserID,
		Profile:     c.Profile,
		Targets:     c.Targets,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (m *MongoStorage) GetClient(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	var doc clientDoc
	err := m.clients.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return doc.toClient()
}

func (m *MongoStorage) UpdateClient(ctx context.Context, c *storage.Client) error {
	c.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	var doc clientDoc
	err := m.clients.FindOneAndUpdate(ctx,
		bson.M{"_id": c.ID.String()},
		bson.M{"$set": bson.M{
			"profile":    c.Profile,
			"targets":    c.Targets,
			"updated_at": c.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	c.CreatedAt = doc.CreatedAt
	return nil
}

func (m *MongoStorage) DeleteClient(ctx context.Context, id uuid.UUID) error {
	res, err := m.clients.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}

	if _, err := m.plans.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete week plan: %w", err)
	}
	return nil
}

func (m *MongoStorage) ListClients(ctx context.Context, f storage.ClientFilter) ([]storage.Client, int, error) {
	filter := bson.M{}
	if f.OwnerUserID != "" {
		filter["owner_user_id"] = f.OwnerUserID
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		filter["profile.name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}

	total, err := m.clients.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Offset > 0 {
		findOptions.SetSkip(int64(f.Offset))
	}
	if f.Limit > 0 {
		findOptions.SetLimit(int64(f.Limit))
	}

	cursor, err := m.clients.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []clientDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode clients: %w", err)
	}

	clients := make([]storage.Client, 0, len(docs))
	for _, d := range docs {
		c, err := d.toClient()
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, *c)
	}

	return clients, int(total), nil
}

func (m *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
