package grpcapi

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nrjais/tablesorter/internal/shape"
)

type reconcileRequest struct {
	WidgetID string         `json:"widgetId"`
	Columns  []shape.Column `json:"columns"`
	Rows     []shape.Row    `json:"rows"`
}

type widgetRequest struct {
	WidgetID      string          `json:"widgetId"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

type configurationResponse struct {
	WidgetID      string          `json:"widgetId"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
	Changed       *bool           `json:"changed,omitempty"`
	Origin        string          `json:"origin,omitempty"`
}

func decodeRequest(in *structpb.Struct, out any) error {
	data, err := in.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

func encodeResponse(in any) (*structpb.Struct, error) {
	data, err := sonic.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to convert response to Struct: %w", err)
	}
	return out, nil
}
