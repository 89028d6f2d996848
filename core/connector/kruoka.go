package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"price-tracker/core/catalog"
	"price-tracker/core/utils"
)

// SourceKRuoka is the data source name for the K-ruoka grocery API.
const SourceKRuoka = "K-ruoka"

// KRuokaConnector fetches the K-ruoka product-search endpoint for one
// category and store.
type KRuokaConnector struct {
	client      *http.Client
	baseURL     string
	category    string
	storeID     string
	buildNumber string
}

// KRuokaOptions configures the connector; zero values fall back to the
// production endpoint and defaults.
type KRuokaOptions struct {
	BaseURL     string
	Category    string
	StoreID     string
	BuildNumber string
	Timeout     time.Duration
}

// NewKRuoka creates the K-ruoka connector.
func NewKRuoka(opts KRuokaOptions) *KRuokaConnector {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.k-ruoka.fi/kr-api/v2"
	}
	if opts.Category == "" {
		opts.Category = "suodatinkahvi"
	}
	if opts.StoreID == "" {
		opts.StoreID = "N106"
	}
	if opts.BuildNumber == "" {
		opts.BuildNumber = kruokaBuildNumber
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &KRuokaConnector{
		client:      &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		category:    opts.Category,
		storeID:     opts.StoreID,
		buildNumber: opts.BuildNumber,
	}
}

func (c *KRuokaConnector) Source() string {
	return SourceKRuoka
}

func (c *KRuokaConnector) Fetch(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf("%s/product-search/%s?storeId=%s&offset=0&limit=100", c.baseURL, c.category, c.storeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	// The API rejects requests without a client build number.
	req.Header.Set("X-K-Build-Number", c.buildNumber)
	req.Header.Set("Origin", "https://www.k-ruoka.fi")
	req.Header.Set("Referer", "https://www.k-ruoka.fi/haku?q="+c.category)

	body, err := doFetch(c.client, req, c.Source())
	if err != nil {
		return nil, err
	}
	return body, nil
}

// kruokaEnvelope is the typed outer shape; each product stays a loose map
// because the mobilescan pricing block varies per item.
type kruokaEnvelope struct {
	Result []struct {
		ID      string         `json:"id"`
		Product map[string]any `json:"product"`
	} `json:"result"`
}

func (c *KRuokaConnector) Normalize(payload []byte) ([]catalog.ProductRecord, error) {
	if err := rejectChallenge(c.Source(), payload); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var envelope kruokaEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return nil, &ValidationError{Source: c.Source(), Reason: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if envelope.Result == nil {
		return nil, &ValidationError{Source: c.Source(), Reason: "missing result array"}
	}

	records := make([]catalog.ProductRecord, 0, len(envelope.Result))
	for _, item := range envelope.Result {
		if item.ID == "" {
			return nil, &ValidationError{Source: c.Source(), Reason: "product without id"}
		}
		product := item.Product

		rec := catalog.ProductRecord{
			DataSource:       c.Source(),
			NaturalKey:       item.ID,
			NamePrimary:      utils.ToStringPtr(utils.Dig(product, "localizedName")["finnish"]),
			NameSecondary:    utils.ToStringPtr(utils.Dig(product, "localizedName")["english"]),
			AvailableInStore: utils.ToBoolPtr(utils.Dig(product, "availability")["store"]),
			AvailableOnline:  utils.ToBoolPtr(utils.Dig(product, "availability")["web"]),
			NetWeight:        utils.ToDecimal(utils.Dig(product, "productAttributes", "measurements")["netWeight"]),
			ContentUnit:      utils.ToStringPtr(utils.Dig(product, "productAttributes", "measurements")["contentUnit"]),
			ImageURL:         utils.ToStringPtr(utils.Dig(product, "productAttributes", "image")["url"]),
			BrandName:        utils.ToStringPtr(utils.Dig(product, "brand")["name"]),
		}

		if pricing := utils.Dig(product, "mobilescan", "pricing"); pricing != nil {
			if normal := utils.Dig(pricing, "normal"); normal != nil {
				rec.NormalPriceUnit = utils.ToStringPtr(normal["unit"])
				rec.NormalPrice = utils.ToDecimal(normal["price"])
			}
			// A batch campaign supersedes a plain discount when both
			// appear.
			for _, block := range []string{"discount", "batch"} {
				if promo := utils.Dig(pricing, block); promo != nil {
					rec.BatchPrice = utils.ToDecimal(promo["price"])
					rec.BatchDiscountPct = utils.ToDecimal(promo["discountPercentage"])
					rec.BatchDiscountType = utils.ToStringPtr(promo["discountType"])
					rec.BatchDaysLeft = utils.ToIntPtr(promo["validNumberOfDaysLeft"])
				}
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:140.0) Gecko/20100101 Firefox/140.0"

// kruokaBuildNumber is the web client build the API currently accepts.
const kruokaBuildNumber = "24596"

// doFetch executes the request and maps failures onto the error taxonomy:
// connectivity problems and retryable status codes become TransientError,
// everything else surfaces as-is for the orchestrator to treat as fatal for
// the cycle.
func doFetch(client *http.Client, req *http.Request, source string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransientError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, &TransientError{Source: source, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &TransientError{Source: source, Err: fmt.Errorf("upstream status %d", resp.StatusCode)}
	default:
		return nil, &ValidationError{Source: source, Reason: fmt.Sprintf("upstream status %d", resp.StatusCode)}
	}
}

// rejectChallenge filters payloads that are clearly not product data: empty
// bodies and HTML anti-bot challenge pages served with status 200.
func rejectChallenge(source string, payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return &ValidationError{Source: source, Reason: "empty payload"}
	}
	if trimmed[0] == '<' {
		return &ValidationError{Source: source, Reason: "HTML payload, likely an anti-bot challenge"}
	}
	lower := strings.ToLower(string(trimmed[:min(len(trimmed), 2048)]))
	for _, marker := range []string{"cf-challenge", "just a moment", "captcha"} {
		if strings.Contains(lower, marker) {
			return &ValidationError{Source: source, Reason: "challenge marker in payload"}
		}
	}
	return nil
}
