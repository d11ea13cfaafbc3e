// Package mongo — реализация CaseRepository поверх коллекции MongoDB.
package mongo

import (
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName — коллекция, в которой лежат истории болезни.
const CollectionName = "records"

type caseRepo struct {
	coll *mongo.Collection
}

var _ repo.CaseRepository = (*caseRepo)(nil)

// Connect подключается к MongoDB и проверяет соединение.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// NewCaseRepository создаёт репозиторий поверх базы db.
func NewCaseRepository(db *mongo.Database) repo.CaseRepository {
	return &caseRepo{coll: db.Collection(CollectionName)}
}

func (r *caseRepo) ListCases(ctx context.Context) ([]model.Case, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "lastDiagnosisTime", Value: -1},
		{Key: "createdAt", Value: -1},
	})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	cs := []model.Case{}
	if err := cur.All(ctx, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *caseRepo) GetCase(ctx context.Context, id string) (*model.Case, error) {
	var c model.Case
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) CreateCase(ctx context.Context, c *model.Case) error {
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

// SaveCase заменяет документ целиком; createdAt берётся из хранимой версии.
func (r *caseRepo) SaveCase(ctx context.Context, c *model.Case) error {
	update := bson.M{"$set": bson.M{
		"name":              c.Name,
		"symptom":           c.Symptom,
		"contact":           c.Contact,
		"gender":            c.Gender,
		"age":               c.Age,
		"lastDiagnosisTime": c.LastDiagnosisTime,
		"diagnoses":         c.Diagnoses,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *caseRepo) CountCases(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *caseRepo) CreateCases(ctx context.Context, cs []model.Case) error {
	if len(cs) == 0 {
		return nil
	}
	_, err := r.coll.InsertMany(ctx, cs)
	return err
}
