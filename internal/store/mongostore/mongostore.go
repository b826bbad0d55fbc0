// Package mongostore implements the document store on MongoDB. Identifiers are
// hex-encoded ObjectIDs.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/sushihentaime/bloglist/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	blogsCollection = "blogs"
	usersCollection = "users"
)

type Store struct {
	client *mongo.Client
	blogs  *blogModel
	users  *userModel
}

// New connects to uri, selects database and ensures the username index exists.
func New(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping mongodb: %w", err)
	}

	db := client.Database(database)

	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not create username index: %w", err)
	}

	return &Store{
		client: client,
		blogs:  &blogModel{coll: db.Collection(blogsCollection)},
		users:  &userModel{coll: db.Collection(usersCollection)},
	}, nil
}

func (s *Store) Blogs() store.BlogStore { return s.blogs }

func (s *Store) Users() store.UserStore { return s.users }

func (s *Store) Backend() string { return "mongodb" }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrMalformedID
	}
	return oid, nil
}
