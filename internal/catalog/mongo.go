package catalog

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTable implements RecordTable on a mongo collection, one document per
// row in the remote shape.
type MongoTable struct {
	coll *mongo.Collection
}

func NewMongoTable(db *mongo.Database) *MongoTable {
	return &MongoTable{coll: db.Collection("products")}
}

func (t *MongoTable) SelectAll(ctx context.Context) ([]ProductRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := t.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]ProductRow, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *MongoTable) SelectByID(ctx context.Context, id string) (*ProductRow, error) {
	var row ProductRow
	err := t.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *MongoTable) SelectByName(ctx context.Context, name string) ([]ProductRow, error) {
	cursor, err := t.coll.Find(ctx, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]ProductRow, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *MongoTable) Insert(ctx context.Context, row ProductRow) error {
	_, err := t.coll.InsertOne(ctx, row)
	return err
}

func (t *MongoTable) InsertMany(ctx context.Context, rows []ProductRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := t.coll.InsertMany(ctx, docs)
	return err
}

func (t *MongoTable) UpsertByID(ctx context.Context, row ProductRow) error {
	opts := options.Replace().SetUpsert(true)
	_, err := t.coll.ReplaceOne(ctx, bson.M{"_id": row.ID}, row, opts)
	return err
}

func (t *MongoTable) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := t.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (t *MongoTable) DeleteByName(ctx context.Context, name string) (int64, error) {
	res, err := t.coll.DeleteMany(ctx, bson.M{"name": name})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (t *MongoTable) DeleteByNamePattern(ctx context.Context, fragment string) (int64, error) {
	filter := bson.M{"name": bson.M{
		"$regex":   regexp.QuoteMeta(fragment),
		"$options": "i",
	}}
	res, err := t.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (t *MongoTable) DeleteByNameExcept(ctx context.Context, name, keepID string) (int64, error) {
	filter := bson.M{
		"name": name,
		"_id":  bson.M{"$ne": keepID},
	}
	res, err := t.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
