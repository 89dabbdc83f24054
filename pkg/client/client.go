package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/nrjais/tablesorter/pkg/protos"
)

const defaultTimeout = 10 * time.Second

type ClientConfig struct {
	ServerAddr string
	Timeout    time.Duration
}

// Column describes one dataset column as the host sees it.
type Column struct {
	Name         string `json:"name"`
	DisplayLabel string `json:"displayLabel,omitempty"`
	IsNumeric    bool   `json:"isNumeric,omitempty"`
}

type Row = map[string]any

// Result carries a configuration as returned by the server. Configuration is
// the serialized JSON the grid consumes.
type Result struct {
	WidgetID      string
	Configuration string
	Changed       bool
	Origin        string
}

type Client struct {
	conn       *grpc.ClientConn
	grpcClient pb.TableSorterServiceClient
	timeout    time.Duration
}

var _ ClientInterface = (*Client)(nil)

// NewClient connects to a TableSorter server. The connection is established
// lazily on the first call.
func NewClient(config ClientConfig) (*Client, error) {
	conn, err := grpc.NewClient(config.ServerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server %s: %w", config.ServerAddr, err)
	}
	c := NewClientWithDependencies(pb.NewTableSorterServiceClient(conn), config)
	c.conn = conn
	return c, nil
}

func NewClientWithDependencies(grpcClient pb.TableSorterServiceClient, config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{grpcClient: grpcClient, timeout: timeout}
}

type reconcileRequest struct {
	WidgetID string   `json:"widgetId,omitempty"`
	Columns  []Column `json:"columns"`
	Rows     []Row    `json:"rows"`
}

type widgetRequest struct {
	WidgetID      string          `json:"widgetId"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

type configurationResponse struct {
	WidgetID      string          `json:"widgetId"`
	Configuration json.RawMessage `json:"configuration"`
	Changed       bool            `json:"changed"`
	Origin        string          `json:"origin"`
}

// Reconcile sends a dataset snapshot for widgetID. An empty widgetID asks the
// server to assign one, returned in Result.WidgetID.
func (c *Client) Reconcile(ctx context.Context, widgetID string, columns []Column, rows []Row) (*Result, error) {
	resp, err := c.call(ctx, c.grpcClient.Reconcile, reconcileRequest{WidgetID: widgetID, Columns: columns, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("reconcile failed for widget %q: %w", widgetID, err)
	}
	return resp, nil
}

// Commit stores a configuration produced by the grid.
func (c *Client) Commit(ctx context.Context, widgetID string, configuration string) (*Result, error) {
	if !json.Valid([]byte(configuration)) {
		return nil, fmt.Errorf("configuration for widget %q is not valid JSON", widgetID)
	}
	resp, err := c.call(ctx, c.grpcClient.CommitConfiguration, widgetRequest{WidgetID: widgetID, Configuration: json.RawMessage(configuration)})
	if err != nil {
		return nil, fmt.Errorf("commit failed for widget %q: %w", widgetID, err)
	}
	return resp, nil
}

func (c *Client) GetConfiguration(ctx context.Context, widgetID string) (string, error) {
	resp, err := c.call(ctx, c.grpcClient.GetConfiguration, widgetRequest{WidgetID: widgetID})
	if err != nil {
		return "", fmt.Errorf("get configuration failed for widget %q: %w", widgetID, err)
	}
	return resp.Configuration, nil
}

func (c *Client) DeleteConfiguration(ctx context.Context, widgetID string) error {
	if _, err := c.call(ctx, c.grpcClient.DeleteConfiguration, widgetRequest{WidgetID: widgetID}); err != nil {
		return fmt.Errorf("delete configuration failed for widget %q: %w", widgetID, err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

type unaryCall func(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

func (c *Client) call(ctx context.Context, method unaryCall, req any) (*Result, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := method(ctx, in)
	if err != nil {
		return nil, err
	}

	data, err := out.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp configurationResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &Result{
		WidgetID:      resp.WidgetID,
		Configuration: string(resp.Configuration),
		Changed:       resp.Changed,
		Origin:        resp.Origin,
	}, nil
}

func toStruct(req any) (*structpb.Struct, error) {
	data, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	in := &structpb.Struct{}
	if err := in.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to convert request to Struct: %w", err)
	}
	return in, nil
}
