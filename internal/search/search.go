package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/hr_records/internal/models"
)

var ErrUnavailable = errors.New("search unavailable")

const indexMapping = `{
  "mappings": {
    "properties": {
      "employeeId":  {"type": "keyword"},
      "firstName":   {"type": "text"},
      "lastName":    {"type": "text"},
      "email":       {"type": "keyword"},
      "dateOfBirth": {"type": "keyword"},
      "department":  {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "position":    {"type": "text", "fields": {"raw": {"type": "keyword"}}}
    }
  }
}`

// Index keeps an Elasticsearch copy of employee records for fuzzy lookup.
type Index struct {
	ES    *elasticsearch.Client
	Index string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
}

func (ix *Index) Ping(ctx context.Context) error {
	res, err := ix.ES.Info(ix.ES.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrUnavailable, res.Status())
	}
	return nil
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	res, err := ix.ES.Indices.Exists([]string{ix.Index}, ix.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch res.StatusCode {
	case http.StatusOK:
		res.Body.Close()
		return nil
	case http.StatusNotFound:
		res.Body.Close()
	default:
		if err := checkResponse(res, "index exists"); err != nil {
			return err
		}
		return fmt.Errorf("%w: index exists: unexpected %s", ErrUnavailable, res.Status())
	}

	res, err = ix.ES.Indices.Create(ix.Index,
		ix.ES.Indices.Create.WithContext(ctx),
		ix.ES.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return checkResponse(res, "create index")
}

func (ix *Index) IndexEmployee(ctx context.Context, e *models.Employee) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(e); err != nil {
		return err
	}

	res, err := ix.ES.Index(ix.Index, &buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(e.EmployeeID),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return checkResponse(res, "index")
}

func (ix *Index) DeleteEmployee(ctx context.Context, employeeID string) error {
	res, err := ix.ES.Delete(ix.Index, employeeID, ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete")
}

func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Employee, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"firstName^2", "lastName^2", "email", "department", "position"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("%w: search: %s", ErrUnavailable, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Employee `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	out := make([]models.Employee, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		out[i] = hit.Source
	}
	return r.Hits.Total.Value, out, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%w: %s: %s %s", ErrUnavailable, op, res.Status(), msg)
	}
	return nil
}
