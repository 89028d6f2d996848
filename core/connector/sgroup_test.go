package connector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sgroupSample = `{
  "data": {
    "store": {
      "products": {
        "items": [
          {
            "id": "6411300158959",
            "name": "Juhla Mokka suodatinkahvi 500 g",
            "brandName": "Paulig",
            "comparisonUnit": "kg",
            "price": 7.95,
            "comparisonPrice": 15.90,
            "pricing": {
              "regularPrice": 7.95,
              "currentPrice": 5.49,
              "comparisonUnit": "kg"
            }
          },
          {
            "id": "6411300000001",
            "name": "Kulta Katriina 450 g",
            "pricing": {
              "regularPrice": 6.49,
              "currentPrice": 6.49
            }
          }
        ]
      }
    }
  }
}`

// TestSGroupNormalize tests the GraphQL payload mapping, including the
// derived net weight and the campaign price rule.
func TestSGroupNormalize(t *testing.T) {
	c := NewSGroup(SGroupOptions{})

	records, err := c.Normalize([]byte(sgroupSample))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, SourceSGroup, first.DataSource)
	assert.Equal(t, "6411300158959", first.NaturalKey)
	assert.Equal(t, "Juhla Mokka suodatinkahvi 500 g", *first.NamePrimary)
	assert.Equal(t, "Paulig", *first.BrandName)

	// Net weight is price / comparisonPrice: 7.95 / 15.90 = 0.5 kg.
	require.True(t, first.NetWeight.Valid)
	assert.True(t, first.NetWeight.Decimal.Equal(decimal.RequireFromString("0.5")))

	require.True(t, first.NormalPrice.Valid)
	assert.True(t, first.NormalPrice.Decimal.Equal(decimal.RequireFromString("7.95")))

	// currentPrice below regularPrice is a campaign price.
	require.True(t, first.BatchPrice.Valid)
	assert.True(t, first.BatchPrice.Decimal.Equal(decimal.RequireFromString("5.49")))

	// currentPrice equal to regularPrice is not a campaign.
	second := records[1]
	assert.False(t, second.BatchPrice.Valid)
	assert.False(t, second.NetWeight.Valid)
}

// TestSGroupNormalize_Rejections tests the payload validation paths.
func TestSGroupNormalize_Rejections(t *testing.T) {
	c := NewSGroup(SGroupOptions{})

	cases := map[string]string{
		"empty payload":   "",
		"html challenge":  "<!DOCTYPE html><html>captcha</html>",
		"missing shape":   `{"data": {"store": null}}`,
		"item without id": `{"data": {"store": {"products": {"items": [{"name": "x"}]}}}}`,
	}

	for name, payload := range cases {
		_, err := c.Normalize([]byte(payload))
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "case %q should be a validation error, got %v", name, err)
	}
}

// TestSGroupFetch tests the GraphQL request shape against a local server.
func TestSGroupFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "RemoteFilteredProducts", r.URL.Query().Get("operationName"))
		assert.Contains(t, r.URL.Query().Get("variables"), "513971200")
		assert.Equal(t, "skaupat-web", r.Header.Get("x-client-name"))
		w.Write([]byte(`{"data": {"store": {"products": {"items": []}}}}`))
	}))
	defer srv.Close()

	c := NewSGroup(SGroupOptions{BaseURL: srv.URL})
	body, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(body), "items")
}
