//go:build e2e

package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/source"
	"github.com/nrjais/tablesorter/internal/tableconfig"
	tsclient "github.com/nrjais/tablesorter/pkg/client"
)

const (
	tablesorterAddr = "localhost:50061"
	testTimeout     = 30 * time.Second
	mongoDBName     = "test"
)

var (
	mongoClient *mongo.Client
)

type TestDoc struct {
	ID   string `bson:"_id" json:"_id"`
	Name string `bson:"name" json:"name"`
	Age  int    `bson:"age" json:"age"`
	City string `bson:"city" json:"city"`
}

func createClient(t *testing.T) *tsclient.Client {
	t.Helper()

	client, err := tsclient.NewClient(tsclient.ClientConfig{
		ServerAddr: tablesorterAddr,
		Timeout:    10 * time.Second,
	})
	require.NoError(t, err, "Failed to create tablesorter client")
	t.Cleanup(func() { client.Close() })
	return client
}

func newWidgetID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString()[:8])
}

func cleanupWidget(t *testing.T, client *tsclient.Client, widgetID string) {
	t.Cleanup(func() {
		err := client.DeleteConfiguration(context.Background(), widgetID)
		require.NoError(t, err, "Failed to delete widget configuration")
	})
}

func peopleColumns(withAge bool) []tsclient.Column {
	cols := []tsclient.Column{
		{Name: "name", DisplayLabel: "Name"},
		{Name: "city", DisplayLabel: "City"},
	}
	if withAge {
		cols = append(cols, tsclient.Column{Name: "age", DisplayLabel: "Age", IsNumeric: true})
	}
	return cols
}

func peopleRows(docs []TestDoc) []tsclient.Row {
	return lo.Map(docs, func(doc TestDoc, _ int) tsclient.Row {
		return tsclient.Row{"name": doc.Name, "city": doc.City, "age": doc.Age}
	})
}

func generateDocs(n int) []TestDoc {
	docs := make([]TestDoc, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, TestDoc{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("Person_%d_%s", i, uuid.NewString()[:4]),
			Age:  20 + i,
			City: lo.Ternary(i%2 == 0, "Oslo", "Bergen"),
		})
	}
	return docs
}

// seedCollection inserts docs into a fresh collection and reads it back the
// way the server's Mongo source does.
func seedCollection(t *testing.T, ctx context.Context, docs []TestDoc) shape.Dataset {
	t.Helper()

	collection := mongoClient.Database(mongoDBName).Collection("tablesorter_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		require.NoError(t, collection.Drop(context.Background()), "Failed to drop collection from MongoDB")
	})

	_, err := collection.InsertMany(ctx, lo.Map(docs, func(doc TestDoc, _ int) any { return doc }))
	require.NoError(t, err, "Failed to insert documents into MongoDB")

	ds, err := source.NewMongoSource(collection, 1000).Fetch(ctx)
	require.NoError(t, err, "Failed to fetch dataset from MongoDB")
	return ds
}

func toClientDataset(ds shape.Dataset) ([]tsclient.Column, []tsclient.Row) {
	cols := lo.Map(ds.Columns, func(c shape.Column, _ int) tsclient.Column {
		return tsclient.Column{Name: c.Name, DisplayLabel: c.DisplayLabel, IsNumeric: c.IsNumeric}
	})
	rows := lo.Map(ds.Rows, func(r shape.Row, _ int) tsclient.Row { return tsclient.Row(r) })
	return cols, rows
}

func parseConfiguration(t *testing.T, raw string) *tableconfig.Configuration {
	t.Helper()
	cfg, err := tableconfig.Parse(raw)
	require.NoError(t, err, "Server returned an invalid configuration")
	return cfg
}
