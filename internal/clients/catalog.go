package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
)

const productsPath = "/api/products"

// CatalogClient reads the product listing from a remote catalog service. It
// satisfies catalog.Lister.
type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	resp, err := cc.c.Do(ctx, http.MethodGet, productsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", cc.c.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Service: cc.c.Name, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var products []catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode %s product list: %w", cc.c.Name, err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// StatusError reports a non-2xx answer from an upstream service.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}
