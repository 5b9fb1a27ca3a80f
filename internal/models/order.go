package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order is a placed purchase. The storefront has no checkout yet, so orders
// are only ever read.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Customer   string      `json:"customer"`
	Total      float64     `json:"total"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}
