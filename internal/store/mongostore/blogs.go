package mongostore

import (
	"context"
	"errors"

	"github.com/sushihentaime/bloglist/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type blogDocument struct {
	ID     primitive.ObjectID  `bson:"_id,omitempty"`
	Title  string              `bson:"title"`
	Author string              `bson:"author"`
	URL    string              `bson:"url"`
	Likes  int                 `bson:"likes"`
	User   *primitive.ObjectID `bson:"user"`
}

func (d blogDocument) blog() store.Blog {
	b := store.Blog{
		ID:     d.ID.Hex(),
		Title:  d.Title,
		Author: d.Author,
		URL:    d.URL,
		Likes:  d.Likes,
	}
	if d.User != nil {
		user := d.User.Hex()
		b.UserID = &user
	}
	return b
}

type blogModel struct {
	coll *mongo.Collection
}

func (m *blogModel) FindAll(ctx context.Context) ([]store.Blog, error) {
	cur, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []blogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	blogs := make([]store.Blog, 0, len(docs))
	for _, d := range docs {
		blogs = append(blogs, d.blog())
	}

	return blogs, nil
}

func (m *blogModel) FindByID(ctx context.Context, id string) (*store.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc blogDocument
	err = m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, store.ErrNotFound
		default:
			return nil, err
		}
	}

	blog := doc.blog()
	return &blog, nil
}

func (m *blogModel) Create(ctx context.Context, b *store.Blog) error {
	doc := blogDocument{
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
	}

	if b.UserID != nil {
		user, err := parseID(*b.UserID)
		if err != nil {
			return err
		}
		doc.User = &user
	}

	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("mongodb returned a non-ObjectID identifier")
	}
	doc.ID = oid
	*b = doc.blog()

	return nil
}

func (m *blogModel) UpdateByID(ctx context.Context, id string, u store.BlogUpdate) (*store.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":  u.Title,
		"author": u.Author,
		"url":    u.URL,
		"likes":  u.Likes,
	}}

	var doc blogDocument
	err = m.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, store.ErrNotFound
		default:
			return nil, err
		}
	}

	blog := doc.blog()
	return &blog, nil
}

func (m *blogModel) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	_, err = m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
