package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/repertree/repertree/pkg/repertoire"
)

// DefaultCollection is the collection MongoStore uses when none is given.
const DefaultCollection = "repertoires"

// MongoStore keeps repertoires in a MongoDB collection, one document per
// repertoire keyed by id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDocument is the stored form. Descriptor fields are duplicated out of
// the graph so List does not need to decode every graph.
type mongoDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Color     string    `bson:"color"`
	FEN       string    `bson:"fen"`
	Graph     string    `bson:"graph"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and uses the given database. An empty
// collection name means DefaultCollection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Get finds the document whose _id is id.
func (s *MongoStore) Get(ctx context.Context, id string) (*repertoire.Repertoire, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find repertoire %s: %w", id, err)
	}
	return fromDocument(doc)
}

// Put upserts rep under its id.
func (s *MongoStore) Put(ctx context.Context, rep *repertoire.Repertoire) error {
	doc, err := toDocument(rep, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save repertoire %s: %w", doc.ID, err)
	}
	return nil
}

// List returns every descriptor ordered by id.
func (s *MongoStore) List(ctx context.Context) ([]repertoire.Descriptor, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"graph": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list repertoires: %w", err)
	}
	var docs []mongoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list repertoires: %w", err)
	}
	out := make([]repertoire.Descriptor, len(docs))
	for i, d := range docs {
		out[i] = d.descriptor()
	}
	return out, nil
}

// Delete removes the document whose _id is id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete repertoire %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocument(rep *repertoire.Repertoire, now time.Time) (mongoDocument, error) {
	data, err := encode(rep)
	if err != nil {
		return mongoDocument{}, err
	}
	return mongoDocument{
		ID:        rep.ID,
		Name:      rep.Name,
		Color:     string(rep.Color),
		FEN:       rep.StartingFEN,
		Graph:     string(data),
		UpdatedAt: now,
	}, nil
}

func fromDocument(doc mongoDocument) (*repertoire.Repertoire, error) {
	return decode([]byte(doc.Graph))
}

func (d mongoDocument) descriptor() repertoire.Descriptor {
	return repertoire.Descriptor{
		ID:          d.ID,
		Name:        d.Name,
		Color:       repertoire.Color(d.Color),
		StartingFEN: d.FEN,
	}
}

var _ Store = (*MongoStore)(nil)
