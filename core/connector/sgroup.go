package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"price-tracker/core/catalog"
	"price-tracker/core/utils"
)

// SourceSGroup is the data source name for the S-ryhmä grocery API.
const SourceSGroup = "S-Ryhma"

// SGroupConnector fetches the s-kaupat GraphQL product search for one store
// and query string.
type SGroupConnector struct {
	client  *http.Client
	baseURL string
	storeID string
	query   string
}

// SGroupOptions configures the connector; zero values fall back to the
// production endpoint and defaults.
type SGroupOptions struct {
	BaseURL string
	StoreID string
	Query   string
	Timeout time.Duration
}

// NewSGroup creates the S-ryhmä connector.
func NewSGroup(opts SGroupOptions) *SGroupConnector {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.s-kaupat.fi"
	}
	if opts.StoreID == "" {
		opts.StoreID = "513971200"
	}
	if opts.Query == "" {
		opts.Query = "suodatinkahvi"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &SGroupConnector{
		client:  &http.Client{Timeout: opts.Timeout},
		baseURL: opts.BaseURL,
		storeID: opts.StoreID,
		query:   opts.Query,
	}
}

func (c *SGroupConnector) Source() string {
	return SourceSGroup
}

func (c *SGroupConnector) Fetch(ctx context.Context) ([]byte, error) {
	variables := fmt.Sprintf(`{"storeId":%q,"queryString":%q,"limit":100,"includeStoreEdgePricing":true}`, c.storeID, c.query)
	u := fmt.Sprintf("%s/?operationName=RemoteFilteredProducts&variables=%s", c.baseURL, url.QueryEscape(variables))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", "https://www.s-kaupat.fi")
	req.Header.Set("x-client-name", "skaupat-web")

	return doFetch(c.client, req, c.Source())
}

// sgroupEnvelope is the typed outer GraphQL shape; items stay loose maps
// because pricing fields come and go between API revisions.
type sgroupEnvelope struct {
	Data *struct {
		Store *struct {
			Products *struct {
				Items []map[string]any `json:"items"`
			} `json:"products"`
		} `json:"store"`
	} `json:"data"`
}

func (c *SGroupConnector) Normalize(payload []byte) ([]catalog.ProductRecord, error) {
	if err := rejectChallenge(c.Source(), payload); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var envelope sgroupEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return nil, &ValidationError{Source: c.Source(), Reason: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if envelope.Data == nil || envelope.Data.Store == nil || envelope.Data.Store.Products == nil {
		return nil, &ValidationError{Source: c.Source(), Reason: "missing data.store.products"}
	}

	items := envelope.Data.Store.Products.Items
	records := make([]catalog.ProductRecord, 0, len(items))
	for _, item := range items {
		id := utils.ToString(item["id"])
		if id == "" {
			return nil, &ValidationError{Source: c.Source(), Reason: "product without id"}
		}

		rec := catalog.ProductRecord{
			DataSource:    c.Source(),
			NaturalKey:    id,
			NamePrimary:   utils.ToStringPtr(item["name"]),
			NameSecondary: utils.ToStringPtr(item["name"]),
			ContentUnit:   utils.ToStringPtr(item["comparisonUnit"]),
			BrandName:     utils.ToStringPtr(item["brandName"]),
		}

		// The API exposes no net weight; derive it from the price to
		// comparison-price ratio when both are present.
		price := utils.ToDecimal(item["price"])
		comparison := utils.ToDecimal(item["comparisonPrice"])
		if price.Valid && comparison.Valid && !comparison.Decimal.IsZero() {
			rec.NetWeight.Decimal = price.Decimal.DivRound(comparison.Decimal, 4)
			rec.NetWeight.Valid = true
		}

		if pricing := utils.Dig(item, "pricing"); pricing != nil {
			rec.NormalPriceUnit = utils.ToStringPtr(pricing["comparisonUnit"])
			rec.NormalPrice = utils.ToDecimal(pricing["regularPrice"])
			// currentPrice equals regularPrice outside campaigns; only a
			// lower current price is a real batch price.
			currentPrice := utils.ToDecimal(pricing["currentPrice"])
			if currentPrice.Valid && rec.NormalPrice.Valid && currentPrice.Decimal.LessThan(rec.NormalPrice.Decimal) {
				rec.BatchPrice = currentPrice
			}
		}

		records = append(records, rec)
	}
	return records, nil
}
