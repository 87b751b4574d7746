package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogcms/models"
)

// ErrStore wraps any failure from the underlying store. Callers do not get
// provider-specific recovery, only a single generic kind.
var ErrStore = errors.New("store error")

// PostFields is the writable subset of a post. CoverImage nil means the
// post has no cover; it is written as an explicit BSON null, never dropped.
type PostFields struct {
	Title      string
	Category   string
	CoverImage *string
	Body       string
}

// PostRepo is the document store adapter for the blogs collection.
// Timestamps are stamped with $currentDate so ordering uses the database
// server's clock, never a caller's.
type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(m *Mongo) *PostRepo {
	return &PostRepo{coll: m.Posts()}
}

// Create inserts a new post and returns its id. The insert goes through an
// upsert so $currentDate can stamp createdAt and updatedAt server-side.
func (r *PostRepo) Create(ctx context.Context, fields PostFields) (string, error) {
	id := primitive.NewObjectID()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		createUpdate(fields),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", storeErr("create", err)
	}
	return id.Hex(), nil
}

// GetByID returns (nil, nil) when no document has the given id; absence is
// a value, not an error, so callers can branch to a not-found view.
func (r *PostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var post models.Post
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get", err)
	}
	return &post, nil
}

// ListAll returns every post, newest first.
func (r *PostRepo) ListAll(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, bson.M{})
}

// ListByCategory returns posts in one category, newest first.
func (r *PostRepo) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	return r.list(ctx, listFilter(category))
}

func (r *PostRepo) list(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(listSort()))
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, storeErr("list decode", err)
	}
	return posts, nil
}

// Update overwrites the writable fields and refreshes updatedAt with the
// server clock. createdAt is never touched.
func (r *PostRepo) Update(ctx context.Context, id string, fields PostFields) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storeErr("update", err)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, editUpdate(fields))
	if err != nil {
		return storeErr("update", err)
	}
	if res.MatchedCount == 0 {
		return storeErr("update", mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes the document. Remote assets it references are left behind
// on purpose; see DESIGN.md.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storeErr("delete", err)
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}

// The update documents below are pure builders so the stamping and filter
// semantics stay testable without a live server.

func fieldSet(f PostFields) bson.M {
	return bson.M{
		"title":      f.Title,
		"category":   f.Category,
		"coverImage": f.CoverImage,
		"body":       f.Body,
	}
}

func createUpdate(f PostFields) bson.M {
	return bson.M{
		"$set":         fieldSet(f),
		"$currentDate": bson.M{"createdAt": true, "updatedAt": true},
	}
}

func editUpdate(f PostFields) bson.M {
	return bson.M{
		"$set":         fieldSet(f),
		"$currentDate": bson.M{"updatedAt": true},
	}
}

func listFilter(category string) bson.M {
	return bson.M{"category": category}
}

func listSort() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}}
}
