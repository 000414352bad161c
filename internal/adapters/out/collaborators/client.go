// Package collaborators implements the engine's outbound collaborator
// ports over HTTP. Customer addresses, product weights and driver
// availability live in other services; these clients only fetch what the
// batching pipeline needs and translate missing records into the domain's
// not-found error.
package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// AddressClient implements the CustomerAddressDirectory port against the
// order management service.
type AddressClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAddressClient creates an HTTP client for customer address lookups.
func NewAddressClient(baseURL string) *AddressClient {
	return &AddressClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type addressResponse struct {
	Region string `json:"region"`
	City   string `json:"city"`
	Street string `json:"street"`
	Raw    string `json:"raw"`
}

// LatestAddress fetches the customer's most recent saved address.
func (c *AddressClient) LatestAddress(ctx context.Context, customerID kernel.UUID) (order.Address, error) {
	url := fmt.Sprintf("%s/api/v1/customers/%s/address", c.baseURL, customerID.String())

	var resp addressResponse
	if err := getJSON(ctx, c.httpClient, url, "address", customerID.String(), &resp); err != nil {
		return order.Address{}, err
	}

	return order.Address{
		Region: resp.Region,
		City:   resp.City,
		Street: resp.Street,
		Raw:    resp.Raw,
	}, nil
}

// CatalogClient implements the ProductCatalog port against the catalog
// service.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient creates an HTTP client for product weight lookups.
func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type productWeightResponse struct {
	UnitWeight decimal.Decimal `json:"unit_weight"`
}

// UnitWeight fetches the per-unit weight of a product. Unknown products
// come back as ObjectNotFound; the weight calculator skips them.
func (c *CatalogClient) UnitWeight(ctx context.Context, productID kernel.UUID) (kernel.Weight, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s/weight", c.baseURL, productID.String())

	var resp productWeightResponse
	if err := getJSON(ctx, c.httpClient, url, "product", productID.String(), &resp); err != nil {
		return kernel.Weight{}, err
	}

	return kernel.NewWeight(resp.UnitWeight)
}

// DriverPoolClient implements the DriverPool port against the dispatch
// service.
type DriverPoolClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDriverPoolClient creates an HTTP client for driver availability
// hints.
func NewDriverPoolClient(baseURL string) *DriverPoolClient {
	return &DriverPoolClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type availableDriversResponse struct {
	DriverIDs []string `json:"driver_ids"`
}

// AvailableDrivers fetches candidate drivers for a region. Selection is
// delegated; the engine passes the hints through untouched. Region keys
// are free-form text and may contain spaces, so the query string is
// built with url.Values rather than concatenation.
func (c *DriverPoolClient) AvailableDrivers(ctx context.Context, regionKey kernel.RegionKey) ([]kernel.UUID, error) {
	params := url.Values{}
	params.Set("region", regionKey.LockKey())
	requestURL := fmt.Sprintf("%s/api/v1/drivers/available?%s", c.baseURL, params.Encode())

	var resp availableDriversResponse
	if err := getJSON(ctx, c.httpClient, requestURL, "drivers", regionKey.Value(), &resp); err != nil {
		return nil, err
	}

	drivers := make([]kernel.UUID, 0, len(resp.DriverIDs))
	for _, raw := range resp.DriverIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, id)
	}

	return drivers, nil
}

func getJSON(ctx context.Context, client *http.Client, requestURL, objectName, objectID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errs.NewObjectNotFoundError(objectName, objectID)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s lookup failed with status %d", objectName, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
