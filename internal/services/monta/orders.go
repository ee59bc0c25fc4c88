package monta

import (
	"context"
	"fmt"
	"net/url"
)

// OrderAddress is a Monta consumer address. Monta rejects orders with
// empty house numbers or postal codes, so callers fill placeholders
// before pushing.
type OrderAddress struct {
	Company             string `json:"Company"`
	FirstName           string `json:"FirstName"`
	LastName            string `json:"LastName"`
	Street              string `json:"Street"`
	HouseNumber         string `json:"HouseNumber"`
	HouseNumberAddition string `json:"HouseNumberAddition"`
	PostalCode          string `json:"PostalCode"`
	City                string `json:"City"`
	CountryCode         string `json:"CountryCode"`
	PhoneNumber         string `json:"PhoneNumber"`
	EmailAddress        string `json:"EmailAddress"`
}

// OrderLine is a single SKU position after pack expansion
type OrderLine struct {
	Sku             string `json:"Sku"`
	OrderedQuantity int    `json:"OrderedQuantity"`
}

// OrderInvoice carries the billing block of an order payload
type OrderInvoice struct {
	PaymentMethodDescription string  `json:"PaymentMethodDescription"`
	AmountInclTax            float64 `json:"AmountInclTax"`
	TotalTax                 float64 `json:"TotalTax"`
	WebshopFactuurID         int     `json:"WebshopFactuurID"`
	Currency                 string  `json:"Currency"`
}

// ConsumerDetails groups the delivery and invoice addresses
type ConsumerDetails struct {
	DeliveryAddress OrderAddress `json:"DeliveryAddress"`
	InvoiceAddress  OrderAddress `json:"InvoiceAddress"`
}

// OrderPayload is the body for POST /order and PUT /order/{id}
type OrderPayload struct {
	WebshopOrderID  string          `json:"WebshopOrderId"`
	Reference       string          `json:"Reference"`
	Origin          string          `json:"Origin"`
	ConsumerDetails ConsumerDetails `json:"ConsumerDetails"`
	Lines           []OrderLine     `json:"Lines"`
	Invoice         OrderInvoice    `json:"Invoice"`
}

// CreateOrder pushes a new order. 200/201 mean accepted.
func (c *Client) CreateOrder(ctx context.Context, p *OrderPayload) (int, map[string]interface{}) {
	return c.Request(ctx, p.WebshopOrderID, "POST", "/order", p, nil)
}

// UpdateOrder replaces an existing order identified by its webshop id
func (c *Client) UpdateOrder(ctx context.Context, webshopOrderID string, p *OrderPayload) (int, map[string]interface{}) {
	path := "/order/" + url.PathEscape(webshopOrderID)
	return c.Request(ctx, p.WebshopOrderID, "PUT", path, p, nil)
}

// DeleteOrder cancels an order on Monta. The endpoint wants a JSON
// body with the cancellation note and a json-patch content type, and
// answers 204 on success.
func (c *Client) DeleteOrder(ctx context.Context, webshopOrderID, note string) (int, map[string]interface{}) {
	if note == "" {
		note = "Cancelled"
	}
	headers := map[string]string{
		"Content-Type": "application/json-patch+json",
		"Accept":       "application/json",
	}
	path := "/order/" + url.PathEscape(webshopOrderID)
	return c.Request(ctx, webshopOrderID, "DELETE", path, map[string]string{"Note": note}, headers)
}

// DescribeDeleteFailure maps a failed DELETE status to a short reason
func DescribeDeleteFailure(status int) string {
	switch status {
	case 400:
		return "order delete invalid"
	case 401:
		return "unauthorized"
	case 404:
		return "order not found"
	default:
		return fmt.Sprintf("api error %d", status)
	}
}
