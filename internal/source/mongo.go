package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/nrjais/tablesorter/internal/shape"
)

const idField = "_id"

// MongoSource reads a bounded snapshot of a collection as a dataset.
type MongoSource struct {
	coll     *mongo.Collection
	rowLimit int64
}

func ConnectMongo(ctx context.Context, mongoURL string) (*mongo.Client, string, error) {
	cs, err := connstring.Parse(mongoURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse mongo URL: %w", err)
	}
	if cs.Database == "" {
		return nil, "", fmt.Errorf("mongo URL must include a database name")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to mongo: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if disconnectErr := client.Disconnect(disconnectCtx); disconnectErr != nil {
			slog.Error("Failed to disconnect from MongoDB after ping failure", "error", disconnectErr)
		}
		return nil, "", fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("Database connection established", "db", "MongoDB", "database", cs.Database)
	return client, cs.Database, nil
}

func NewMongoSource(coll *mongo.Collection, rowLimit int64) *MongoSource {
	return &MongoSource{coll: coll, rowLimit: rowLimit}
}

func (s *MongoSource) Fetch(ctx context.Context) (shape.Dataset, error) {
	opts := options.Find().SetLimit(s.rowLimit).SetSort(bson.D{{Key: idField, Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return shape.Dataset{}, fmt.Errorf("failed to query collection %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return shape.Dataset{}, fmt.Errorf("failed to decode document from %s: %w", s.coll.Name(), err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return shape.Dataset{}, fmt.Errorf("cursor error reading %s: %w", s.coll.Name(), err)
	}

	ds := DatasetFromDocuments(docs)
	slog.Debug("Fetched dataset from MongoDB",
		"collection", s.coll.Name(),
		"rows", len(ds.Rows),
		"columns", len(ds.Columns))
	return ds, nil
}

// DatasetFromDocuments flattens top level fields into rows. Columns appear
// in first-seen order and are numeric when they hold at least one value and
// every non-null value is numeric.
func DatasetFromDocuments(docs []bson.D) shape.Dataset {
	var names []string
	numeric := make(map[string]bool)
	present := make(map[string]bool)
	rows := make([]shape.Row, 0, len(docs))

	for _, doc := range docs {
		row := make(shape.Row, len(doc))
		for _, elem := range doc {
			if elem.Key == idField {
				continue
			}
			if _, seen := numeric[elem.Key]; !seen {
				names = append(names, elem.Key)
				numeric[elem.Key] = true
			}

			value := normalizeValue(elem.Value)
			row[elem.Key] = value
			if value == nil {
				continue
			}
			present[elem.Key] = true
			if _, ok := row.Number(elem.Key); !ok {
				numeric[elem.Key] = false
			}
		}
		rows = append(rows, row)
	}

	columns := lo.Map(names, func(name string, _ int) shape.Column {
		return shape.Column{Name: name, DisplayLabel: name, IsNumeric: numeric[name] && present[name]}
	})
	return shape.Dataset{Columns: columns, Rows: rows}
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case int32, int64, float64, string, bool:
		return val
	case primitive.Decimal128:
		if f, err := strconv.ParseFloat(val.String(), 64); err == nil {
			return f
		}
		return val.String()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case bson.D:
		data, err := bson.MarshalExtJSON(val, false, false)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}
