package mongostore

import (
	"context"
	"errors"

	"github.com/sushihentaime/bloglist/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Name         string               `bson:"name"`
	PasswordHash []byte               `bson:"passwordHash"`
	Blogs        []primitive.ObjectID `bson:"blogs"`
}

func (d userDocument) user() store.User {
	u := store.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Blogs:        make([]string, 0, len(d.Blogs)),
	}
	for _, b := range d.Blogs {
		u.Blogs = append(u.Blogs, b.Hex())
	}
	return u
}

type userModel struct {
	coll *mongo.Collection
}

func (m *userModel) FindAll(ctx context.Context) ([]store.User, error) {
	cur, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]store.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.user())
	}

	return users, nil
}

func (m *userModel) FindByID(ctx context.Context, id string) (*store.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, store.ErrNotFound
		default:
			return nil, err
		}
	}

	u := doc.user()
	return &u, nil
}

func (m *userModel) Create(ctx context.Context, u *store.User) error {
	doc := userDocument{
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Blogs:        make([]primitive.ObjectID, 0, len(u.Blogs)),
	}

	for _, b := range u.Blogs {
		oid, err := parseID(b)
		if err != nil {
			return err
		}
		doc.Blogs = append(doc.Blogs, oid)
	}

	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		switch {
		case mongo.IsDuplicateKeyError(err):
			return store.ErrDuplicateUsername
		default:
			return err
		}
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("mongodb returned a non-ObjectID identifier")
	}
	u.ID = oid.Hex()

	if u.Blogs == nil {
		u.Blogs = []string{}
	}

	return nil
}

func (m *userModel) AppendBlog(ctx context.Context, userID, blogID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	bid, err := parseID(blogID)
	if err != nil {
		return err
	}

	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$push": bson.M{"blogs": bid}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}
