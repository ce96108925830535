package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"trendhub/pkg/models"
)

const (
	itemsCollection     = "trendingItems"
	snapshotsCollection = "trending"
)

// Mongo is the production store. Runs are committed in a transaction
// when the deployment supports one (replica set); the coordinator
// falls back to per-item writes otherwise.
type Mongo struct {
	client *mongo.Client
	items  *mongo.Collection
	snaps  *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	return &Mongo{
		client: client,
		items:  db.Collection(itemsCollection),
		snaps:  db.Collection(snapshotsCollection),
	}, nil
}

func (m *Mongo) InsertItem(ctx context.Context, item *models.TrendingItem) error {
	if _, err := m.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (m *Mongo) InsertSnapshot(ctx context.Context, snap *models.TrendingSnapshot) error {
	if _, err := m.snaps.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (m *Mongo) InsertRunBatch(ctx context.Context, items []models.TrendingItem, snap *models.TrendingSnapshot) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		if len(items) > 0 {
			docs := make([]any, len(items))
			for i := range items {
				docs[i] = items[i]
			}
			if _, err := m.items.InsertMany(ctx, docs); err != nil {
				return nil, err
			}
		}
		if _, err := m.snaps.InsertOne(ctx, snap); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}
	return nil
}

func (m *Mongo) LatestSnapshot(ctx context.Context, mediaType string) (*models.TrendingSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}})

	var snap models.TrendingSnapshot
	err := m.snaps.FindOne(ctx, bson.D{{Key: "type", Value: mediaType}}, opts).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &snap, nil
}

func (m *Mongo) ItemsByIDs(ctx context.Context, ids []string) ([]models.TrendingItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := m.items.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	var out []models.TrendingItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return out, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
