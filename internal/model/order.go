package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the fulfilment states of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

// IsValidOrderStatus reports whether s is a known fulfilment state.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusPacked, OrderStatusShipped, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// PaymentStatus enumerates the payment states of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderSummary holds the monetary breakdown of an order. It is always
// derived from the line items, delivery fee and discount, never mutated
// incrementally.
type OrderSummary struct {
	Subtotal    float64 `json:"subtotal" db:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee" db:"delivery_fee"`
	Tax         float64 `json:"tax" db:"tax"`
	Discount    float64 `json:"discount" db:"discount"`
	Total       float64 `json:"total" db:"total"`
}

// Address is a shipping address.
type Address struct {
	Name         string `json:"name" db:"name"`
	Phone        string `json:"phone" db:"phone"`
	AddressLine1 string `json:"addressLine1" db:"address_line1"`
	AddressLine2 string `json:"addressLine2,omitempty" db:"address_line2"`
	City         string `json:"city" db:"city"`
	State        string `json:"state" db:"state"`
	Pincode      string `json:"pincode" db:"pincode"`
	Country      string `json:"country" db:"country"`
}

// Order represents a customer order.
type Order struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	OrderNumber       string        `json:"orderNumber" db:"order_number"`
	UserID            uuid.UUID     `json:"userId" db:"user_id"`
	Items             []OrderItem   `json:"items"`
	Summary           OrderSummary  `json:"summary"`
	Status            OrderStatus   `json:"status" db:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentMethod     string        `json:"paymentMethod" db:"payment_method"`
	ShippingAddress   Address       `json:"shippingAddress"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery" db:"estimated_delivery"`
	ActualDelivery    *time.Time    `json:"actualDelivery,omitempty" db:"actual_delivery"`
	TrackingNumber    *string       `json:"trackingNumber,omitempty" db:"tracking_number"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Items are immutable once
// the order is placed.
type OrderItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unitPrice" db:"unit_price"`
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress Address            `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderCreatedResponse is returned after a successful order placement.
type OrderCreatedResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
}

// StatusUpdateRequest asks for a fulfilment status change on an order.
type StatusUpdateRequest struct {
	Status         OrderStatus `json:"status"`
	TrackingNumber string      `json:"trackingNumber,omitempty"`
}
