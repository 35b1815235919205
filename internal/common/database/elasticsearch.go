package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"vehicle-finance-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// vehicleMapping covers the catalogue fields the listing lookup reads.
// priceRange stays a keyword: it is display text such as "$26,420 - $28,500".
const vehicleMapping = `{
  "mappings": {
    "properties": {
      "make":       {"type": "keyword"},
      "model":      {"type": "keyword"},
      "year":       {"type": "integer"},
      "trim":       {"type": "keyword"},
      "priceRange": {"type": "keyword"},
      "price":      {"type": "double"},
      "cityMpg":    {"type": "double"}
    }
  }
}`

// EnsureVehicleIndex creates the vehicle catalogue index when it is missing.
// It reports whether the index was created.
func EnsureVehicleIndex(ctx context.Context, transport esapi.Transport, index string) (bool, error) {
	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, transport)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", index, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, fmt.Errorf("check index %s: %s", index, exists.Status())
	}

	res, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(vehicleMapping),
	}.Do(ctx, transport)
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()

	// Another worker manager may have won the race.
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return false, fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return !res.IsError(), nil
}
