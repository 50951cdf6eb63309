//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-kiosk/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type menuItemPayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	ImageRef  string `json:"imageRef"`
}

type cartPayload struct {
	Lines []struct {
		ItemID   int64 `json:"itemId"`
		Quantity int   `json:"quantity"`
	} `json:"lines"`
	TotalCount int    `json:"totalCount"`
	TotalPrice string `json:"totalPrice"`
}

type checkoutPayload struct {
	OrderID int64 `json:"orderId"`
}

type orderPayload struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Action string `json:"action"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	kind   string
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestKioskScreenContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")
	price := func(example string) matchers.Matcher {
		return matchers.Term(example, `^\d+\.\d{2}$`)
	}
	problem := func(kind string, status int) matchers.Map {
		return matchers.Map{
			"type":   matchers.S(kind),
			"title":  matchers.Like("Problem"),
			"status": matchers.Like(status),
		}
	}
	menuItem := pacttest.ExampleMenuItemPayload()
	order := pacttest.ExampleOrderPayload()

	pact.AddInteraction().
		Given(pacttest.StateMenuBaseline).
		UponReceiving("a request for a menu item").
		WithRequest("GET", fmt.Sprintf("/v1/menu/%d", pacttest.FruitSaladID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":        matchers.Like(menuItem["id"]),
				"name":      matchers.Like(menuItem["name"]),
				"unitPrice": price(menuItem["unitPrice"].(string)),
				"imageRef":  matchers.Like(menuItem["imageRef"]),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateMenuBaseline).
		UponReceiving("a request for a menu item that does not exist").
		WithRequest("GET", fmt.Sprintf("/v1/menu/%d", pacttest.MissingItemID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(problem("/problems/not-found", http.StatusNotFound))
		})

	pact.AddInteraction().
		Given(pacttest.StateCartEmpty).
		UponReceiving("a request to add a fruit salad to an empty cart").
		WithRequest("POST", "/v1/cart/items", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"itemId": matchers.Like(pacttest.FruitSaladID)})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"lines": matchers.ArrayMinLike(matchers.Map{
					"itemId":    matchers.Like(pacttest.FruitSaladID),
					"name":      matchers.Like("Salada de Frutas"),
					"unitPrice": price("6.00"),
					"quantity":  matchers.Like(1),
					"lineTotal": price("6.00"),
				}, 1),
				"totalCount": matchers.Like(1),
				"totalPrice": price("6.00"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartHasItems).
		UponReceiving("a request to check out a filled cart").
		WithRequest("POST", "/v1/checkout").
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"orderId": matchers.Like(1718000000000)})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartEmpty).
		UponReceiving("a request to check out an empty cart").
		WithRequest("POST", "/v1/checkout").
		WillRespondWith(http.StatusUnprocessableEntity, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(problem("/problems/unprocessable-entity", http.StatusUnprocessableEntity))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderPending).
		UponReceiving("a request to advance a pending order").
		WithRequest("POST", fmt.Sprintf("/v1/orders/%d/advance", pacttest.PendingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":     matchers.Like(order["id"]),
				"status": matchers.S("preparing"),
				"action": matchers.S("deliver"),
				"lines": matchers.ArrayMinLike(matchers.Map{
					"itemId":   matchers.Like(pacttest.FruitSaladID),
					"name":     matchers.Like("Salada de Frutas"),
					"quantity": matchers.Like(2),
					"label":    matchers.Like("Salada de Frutas 2x"),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderDelivered).
		UponReceiving("a request to advance a delivered order").
		WithRequest("POST", fmt.Sprintf("/v1/orders/%d/advance", pacttest.DeliveredOrderID)).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(problem("/problems/conflict", http.StatusConflict))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for an order that does not exist").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(problem("/problems/not-found", http.StatusNotFound))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newKioskClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var item menuItemPayload
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/menu/%d", pacttest.FruitSaladID), nil, &item); err != nil {
			return fmt.Errorf("get menu item: %w", err)
		}
		if item.ID != pacttest.FruitSaladID || item.UnitPrice == "" {
			return fmt.Errorf("unexpected menu item %+v", item)
		}
		if err := expectStatus(client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/menu/%d", pacttest.MissingItemID), nil, nil), http.StatusNotFound); err != nil {
			return err
		}

		var cart cartPayload
		if err := client.do(ctx, http.MethodPost, "/v1/cart/items", map[string]any{"itemId": pacttest.FruitSaladID}, &cart); err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		if cart.TotalCount != 1 || len(cart.Lines) != 1 {
			return fmt.Errorf("unexpected cart %+v", cart)
		}

		var placed checkoutPayload
		if err := client.do(ctx, http.MethodPost, "/v1/checkout", nil, &placed); err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if placed.OrderID <= 0 {
			return fmt.Errorf("expected a positive order id, got %d", placed.OrderID)
		}
		if err := expectStatus(client.do(ctx, http.MethodPost, "/v1/checkout", nil, nil), http.StatusUnprocessableEntity); err != nil {
			return err
		}

		var advanced orderPayload
		if err := client.do(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%d/advance", pacttest.PendingOrderID), nil, &advanced); err != nil {
			return fmt.Errorf("advance order: %w", err)
		}
		if advanced.Status != "preparing" || advanced.Action != "deliver" {
			return fmt.Errorf("unexpected advanced order %+v", advanced)
		}
		if err := expectStatus(client.do(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%d/advance", pacttest.DeliveredOrderID), nil, nil), http.StatusConflict); err != nil {
			return err
		}
		return expectStatus(client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID), nil, nil), http.StatusNotFound)
	})
	require.NoError(t, err)
}

func expectStatus(err error, status int) error {
	if err == nil {
		return fmt.Errorf("expected status %d, got success", status)
	}
	apiErr, ok := err.(apiError)
	if !ok {
		return err
	}
	if apiErr.status != status {
		return fmt.Errorf("expected status %d, got %d", status, apiErr.status)
	}
	return nil
}

type kioskClient struct {
	baseURL    string
	httpClient *http.Client
}

func newKioskClient(config pactconsumer.MockServerConfig) *kioskClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &kioskClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *kioskClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, kind: problem.Type, title: problem.Title, detail: problem.Detail}
}
