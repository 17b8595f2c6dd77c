// Package es provides the Elasticsearch client used for full-text
// search over notes and processed inbox documents.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"assistant-go/internal/config"
	"assistant-go/internal/model"
	"assistant-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ESClient is the global Elasticsearch client instance.
var ESClient *elasticsearch.Client

var indexName string

// InitES initialises the Elasticsearch client and creates the search
// index when it does not exist yet.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	indexName = esCfg.IndexName
	return createIndexIfNotExists(indexName)
}

func createIndexIfNotExists(name string) error {
	res, err := ESClient.Indices.Exists([]string{name})
	if err != nil {
		log.Errorf("failed to check index existence: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("index '%s' already exists", name)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status code checking index: %d", res.StatusCode)
	}

	mapping := `{
		"mappings": {
			"properties": {
				"doc_type":   { "type": "keyword" },
				"doc_id":     { "type": "long" },
				"user_id":    { "type": "long" },
				"title":      { "type": "text" },
				"content":    { "type": "text" },
				"tags":       { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		name,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("failed to create index '%s': %v", name, err)
		return err
	}
	if res.IsError() {
		log.Errorf("Elasticsearch returned an error creating index '%s': %s", name, res.String())
		return errors.New("failed to create search index")
	}

	log.Infof("index '%s' created", name)
	return nil
}

// documentID builds the Elasticsearch document id, e.g. "note-42".
func documentID(docType string, docID uint) string {
	return fmt.Sprintf("%s-%d", docType, docID)
}

// IndexDocument indexes a search document. It overwrites any previous
// version of the same note or inbox item.
func IndexDocument(ctx context.Context, doc model.SearchDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: documentID(doc.DocType, doc.DocID),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("failed to index document: %s", res.String())
		return errors.New("failed to index document")
	}
	return nil
}

// DeleteDocument removes a search document. A missing document is not
// an error.
func DeleteDocument(ctx context.Context, docType string, docID uint) error {
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: documentID(docType, docID),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("failed to delete document: %s", res.String())
		return errors.New("failed to delete document")
	}
	return nil
}

// Search runs a full-text query over the user's documents. docType may
// be empty to search both notes and inbox items.
func Search(ctx context.Context, userID uint, query, docType string, limit int) ([]model.SearchDocument, error) {
	if limit <= 0 {
		limit = 20
	}

	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"user_id": userID}},
	}
	if docType != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"doc_type": docType},
		})
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title^2", "content", "tags"},
					},
				},
				"filter": filters,
			},
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("search request failed: %s", res.String())
		return nil, errors.New("search request failed")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source model.SearchDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	docs := make([]model.SearchDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}
