package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/grocerystore/internal/models"
)

// Index mirrors catalog writes into a search engine. The relational store
// stays authoritative for reads.
type Index interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

// Ping checks the cluster answers its info endpoint.
func Ping(ctx context.Context, client *elasticsearch.Client) error {
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return nil
}

type ESIndex struct {
	Client *elasticsearch.Client
	Name   string
}

type productDoc struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (x *ESIndex) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	doc := productDoc{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2), Quantity: p.Quantity}
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode product %d: %w", p.ID, err)
	}

	res, err := x.Client.Index(x.Name, &buf,
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(docID(p.ID)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

// DeleteProduct treats a missing document as already deleted.
func (x *ESIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(x.Name, docID(id),
		x.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product %d: %s", id, res.Status())
	}
	return nil
}

type Nop struct{}

func (Nop) IndexProduct(context.Context, models.Product) error { return nil }
func (Nop) DeleteProduct(context.Context, uint) error          { return nil }
