//go:build e2e

package tests

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/tableconfig"
)

const (
	mongoURI = "mongodb://localhost:27017/?directConnection=true"
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error

	log.Printf("Connecting to MongoDB at %s...", mongoURI)
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Could not connect to mongo: %v", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Could not ping mongo: %v", err)
	}
	log.Println("Successfully connected to MongoDB")

	log.Println("Starting E2E tests...")
	code := m.Run()
	log.Println("E2E tests finished.")

	if err = mongoClient.Disconnect(ctx); err != nil {
		log.Printf("Could not disconnect mongo client: %v", err)
	}
	os.Exit(code)
}

func TestFreshThenReconciled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	client := createClient(t)
	docs := generateDocs(4)

	first, err := client.Reconcile(ctx, "", peopleColumns(true), peopleRows(docs))
	require.NoError(t, err)
	require.NotEmpty(t, first.WidgetID, "Server should assign a widget id")
	cleanupWidget(t, client, first.WidgetID)

	assert.Equal(t, "fresh", first.Origin)
	assert.True(t, first.Changed)
	cfg := parseConfiguration(t, first.Configuration)
	assert.Equal(t, "Name", cfg.PrimaryKey)
	assert.Equal(t, &tableconfig.Domain{20, 23}, cfg.Columns[2].Domain)

	second, err := client.Reconcile(ctx, first.WidgetID, peopleColumns(true), peopleRows(docs[:2]))
	require.NoError(t, err)
	assert.Equal(t, "reconciled", second.Origin)
	assert.False(t, second.Changed, "Domain-only changes should not count as a change")
	assert.Equal(t, &tableconfig.Domain{20, 21}, parseConfiguration(t, second.Configuration).Columns[2].Domain)
}

func TestUserStateSurvivesReconcile(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	client := createClient(t)
	widgetID := newWidgetID("user_state")
	cleanupWidget(t, client, widgetID)
	docs := generateDocs(6)

	_, err := client.Reconcile(ctx, widgetID, peopleColumns(true), peopleRows(docs))
	require.NoError(t, err)

	committed := `{
		"primaryKey": "Name",
		"columns": [
			{"name": "name", "label": "Name", "type": "string"},
			{"name": "city", "label": "City", "type": "string"},
			{"name": "age", "label": "Age", "type": "number", "domain": [20, 25]}
		],
		"layout": [
			{"type": "rank"},
			{"column": "name", "type": "string", "width": 180},
			{"column": "city", "type": "string", "filter": {"contains": "Os"}},
			{"column": "age", "type": "number", "domain": [22, 24]}
		],
		"sort": {"column": "age", "asc": false}
	}`
	result, err := client.Commit(ctx, widgetID, committed)
	require.NoError(t, err)
	assert.True(t, result.Changed)

	reconciled, err := client.Reconcile(ctx, widgetID, peopleColumns(true), peopleRows(docs[:4]))
	require.NoError(t, err)
	cfg := parseConfiguration(t, reconciled.Configuration)
	require.Len(t, cfg.Layout, 4)
	assert.Equal(t, &tableconfig.Domain{22, 23}, cfg.Layout[3].Domain, "User range should be clamped")
	assert.Equal(t, "Os", cfg.Layout[2].Filter.Contains)
	assert.Equal(t, "age", cfg.Sort.Column)

	dropped, err := client.Reconcile(ctx, widgetID, peopleColumns(false), peopleRows(docs))
	require.NoError(t, err)
	assert.True(t, dropped.Changed)
	cfg = parseConfiguration(t, dropped.Configuration)
	assert.Nil(t, cfg.Sort, "Sort on a removed column should be cleared")
	assert.Len(t, cfg.Layout, 3)
	assert.Len(t, cfg.Columns, 2)

	stored, err := client.GetConfiguration(ctx, widgetID)
	require.NoError(t, err)
	assert.False(t, tableconfig.HasConfigurationChanged(cfg, parseConfiguration(t, stored)))
}

func TestMongoDataset(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	ds := seedCollection(t, ctx, generateDocs(3))
	require.Len(t, ds.Columns, 3)
	assert.Equal(t, shape.Column{Name: "age", DisplayLabel: "age", IsNumeric: true}, ds.Columns[1])

	client := createClient(t)
	widgetID := newWidgetID("mongo")
	cleanupWidget(t, client, widgetID)

	cols, rows := toClientDataset(ds)
	result, err := client.Reconcile(ctx, widgetID, cols, rows)
	require.NoError(t, err)

	cfg := parseConfiguration(t, result.Configuration)
	age, ok := cfg.Column("age")
	require.True(t, ok)
	assert.Equal(t, shape.Number, age.Type)
	assert.Equal(t, &tableconfig.Domain{20, 22}, age.Domain)
}

func TestDeleteUnknownWidget(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	client := createClient(t)
	err := client.DeleteConfiguration(ctx, newWidgetID("missing"))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetConfiguration(ctx, newWidgetID("missing"))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
