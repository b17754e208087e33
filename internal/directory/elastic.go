package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/userauth/internal/models"
)

type ElasticConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

// NewElastic builds a client and checks the cluster answers before returning.
func NewElastic(ctx context.Context, cfg ElasticConfig) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res.Status(), res.Body)
	}

	return &Elastic{es: client, index: cfg.Index}, nil
}

func (e *Elastic) Index(ctx context.Context, u *models.User) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("elasticsearch: encode user: %w", err)
	}

	res, err := e.es.Index(
		e.index,
		bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.FormatInt(u.ID, 10)),
		e.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index user %d: %w", u.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

func (e *Elastic) Search(ctx context.Context, query string, from, size int) (int64, []models.User, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
		e.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.User `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: decode response: %w", err)
	}

	users := make([]models.User, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		users[i] = hit.Source
	}
	return r.Hits.Total.Value, users, nil
}

func searchBody(query string, from, size int) map[string]any {
	q := map[string]any{"match_all": map[string]any{}}
	if query = strings.TrimSpace(query); query != "" {
		q = map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"firstname^2", "lastname^2", "email"},
				"fuzziness": "AUTO",
			},
		}
	}
	return map[string]any{
		"query": q,
		"from":  from,
		"size":  size,
		"sort":  []any{"_score", map[string]any{"id": "asc"}},
	}
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("elasticsearch: %s: %s: %s", op, status, bytes.TrimSpace(msg))
}
