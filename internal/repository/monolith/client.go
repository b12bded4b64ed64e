package monolith

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Client calls the monolith ranking model served by TensorFlow Serving over
// its REST API (POST /v1/models/{model}:predict).
type Client struct {
	endpoint   string
	modelName  string
	httpClient *http.Client
}

func NewClient(host, port, modelName string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		endpoint:  fmt.Sprintf("http://%s:%s", host, port),
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictRequest struct {
	SignatureName string           `json:"signature_name"`
	Instances     []map[string]any `json:"instances"`
}

type predictResponse struct {
	Predictions []any `json:"predictions"`
}

// Predict scores candidate features and returns a score per product id.
// Instances are sent in stable id order and zipped with predictions by index.
func (c *Client) Predict(ctx context.Context, features map[string]map[string]any) (map[string]float64, error) {
	if len(features) == 0 {
		return map[string]float64{}, nil
	}

	ids := make([]string, 0, len(features))
	for id := range features {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	instances := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		instance := map[string]any{"product_id": id}
		for k, v := range features[id] {
			instance[k] = v
		}
		instances = append(instances, instance)
	}

	body, err := json.Marshal(predictRequest{
		SignatureName: "serving_default",
		Instances:     instances,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.endpoint, c.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("monolith error: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}

	if len(result.Predictions) != len(ids) {
		return nil, fmt.Errorf("prediction count mismatch: got %d, want %d", len(result.Predictions), len(ids))
	}

	scores := make(map[string]float64, len(ids))
	for i, pred := range result.Predictions {
		score, ok := toFloat(pred)
		if !ok {
			return nil, fmt.Errorf("unexpected prediction type: %T", pred)
		}
		scores[ids[i]] = score
	}

	return scores, nil
}

// toFloat accepts scalar predictions and single-element arrays.
func toFloat(pred any) (float64, bool) {
	switch v := pred.(type) {
	case float64:
		return v, true
	case []any:
		if len(v) > 0 {
			if f, ok := v[0].(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}
