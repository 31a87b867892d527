// Package lifecycle is the order fulfilment state machine: which
// transitions are legal, when an order may be cancelled or returned, and
// how each status is displayed. It performs no I/O; side effects such as
// stock restoration belong to the caller, after a successful transition.
package lifecycle

import (
	"fmt"
	"time"

	"green-kart/internal/model"
)

// ReturnWindow is how long after delivery an order remains returnable.
const ReturnWindow = 7 * 24 * time.Hour

// Event requests a status transition.
type Event string

const (
	EventConfirm        Event = "confirm"
	EventProcess        Event = "process"
	EventPack           Event = "pack"
	EventShip           Event = "ship"
	EventOutForDelivery Event = "out_for_delivery"
	EventDeliver        Event = "deliver"
	EventCancel         Event = "cancel"
	EventReturn         Event = "return"
)

// forward maps each forward-progression event to the status it must start
// from and the status it produces.
var forward = map[Event]struct {
	from model.OrderStatus
	to   model.OrderStatus
}{
	EventConfirm:        {model.OrderStatusPending, model.OrderStatusConfirmed},
	EventProcess:        {model.OrderStatusConfirmed, model.OrderStatusProcessing},
	EventPack:           {model.OrderStatusProcessing, model.OrderStatusPacked},
	EventShip:           {model.OrderStatusPacked, model.OrderStatusShipped},
	EventOutForDelivery: {model.OrderStatusShipped, model.OrderStatusOutForDelivery},
	EventDeliver:        {model.OrderStatusOutForDelivery, model.OrderStatusDelivered},
}

// eventForTarget maps a requested target status to the event that reaches
// it, for callers that express transitions as desired statuses.
var eventForTarget = map[model.OrderStatus]Event{
	model.OrderStatusConfirmed:      EventConfirm,
	model.OrderStatusProcessing:     EventProcess,
	model.OrderStatusPacked:         EventPack,
	model.OrderStatusShipped:        EventShip,
	model.OrderStatusOutForDelivery: EventOutForDelivery,
	model.OrderStatusDelivered:      EventDeliver,
	model.OrderStatusCancelled:      EventCancel,
	model.OrderStatusReturned:       EventReturn,
}

// CanCancel reports whether an order in the given status may still be
// cancelled.
func CanCancel(status model.OrderStatus) bool {
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusProcessing:
		return true
	}
	return false
}

// CanReturn reports whether a delivered order is still inside the return
// window. deliveredAt must be set; the window is inclusive at exactly
// ReturnWindow.
func CanReturn(status model.OrderStatus, deliveredAt *time.Time, now time.Time) bool {
	if status != model.OrderStatusDelivered || deliveredAt == nil {
		return false
	}
	return now.Sub(*deliveredAt) <= ReturnWindow
}

// StatusInfo is the display metadata for an order status.
type StatusInfo struct {
	Label       string `json:"label"`
	ColorTag    string `json:"colorTag"`
	Description string `json:"description"`
}

// statusDisplay must stay total over the status enumeration; a missing
// entry is a defect, not a case for a runtime fallback.
var statusDisplay = map[model.OrderStatus]StatusInfo{
	model.OrderStatusPending:        {Label: "Pending", ColorTag: "yellow", Description: "Order is being processed"},
	model.OrderStatusConfirmed:      {Label: "Confirmed", ColorTag: "blue", Description: "Order has been confirmed"},
	model.OrderStatusProcessing:     {Label: "Processing", ColorTag: "purple", Description: "Order is being prepared"},
	model.OrderStatusPacked:         {Label: "Packed", ColorTag: "indigo", Description: "Order has been packed"},
	model.OrderStatusShipped:        {Label: "Shipped", ColorTag: "cyan", Description: "Order is on the way"},
	model.OrderStatusOutForDelivery: {Label: "Out for Delivery", ColorTag: "orange", Description: "Order is out for delivery"},
	model.OrderStatusDelivered:      {Label: "Delivered", ColorTag: "green", Description: "Order has been delivered"},
	model.OrderStatusCancelled:      {Label: "Cancelled", ColorTag: "red", Description: "Order has been cancelled"},
	model.OrderStatusReturned:       {Label: "Returned", ColorTag: "gray", Description: "Order has been returned"},
}

// AllStatuses lists every order status in canonical fulfilment order,
// side branches last.
var AllStatuses = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusConfirmed,
	model.OrderStatusProcessing,
	model.OrderStatusPacked,
	model.OrderStatusShipped,
	model.OrderStatusOutForDelivery,
	model.OrderStatusDelivered,
	model.OrderStatusCancelled,
	model.OrderStatusReturned,
}

// Display returns the display metadata for a status. Unknown statuses are
// a caller bug and yield an error rather than a fallback entry.
func Display(status model.OrderStatus) (StatusInfo, error) {
	info, ok := statusDisplay[status]
	if !ok {
		return StatusInfo{}, fmt.Errorf("unknown order status %q", status)
	}
	return info, nil
}

// EventForTarget resolves the event that moves an order to the requested
// status, for callers that speak in target statuses.
func EventForTarget(target model.OrderStatus) (Event, error) {
	event, ok := eventForTarget[target]
	if !ok {
		return "", model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("no transition reaches status %q", target))
	}
	return event, nil
}

// Advance applies an event to the current status and returns the next
// status. Forward events must follow the canonical sequence exactly;
// cancel and return are gated by CanCancel and CanReturn. Any other
// request is rejected, never coerced.
func Advance(current model.OrderStatus, event Event, deliveredAt *time.Time, now time.Time) (model.OrderStatus, error) {
	switch event {
	case EventCancel:
		if !CanCancel(current) {
			return "", model.NewDomainError(model.ErrCodeInvalidTransition,
				fmt.Sprintf("order in status %q cannot be cancelled", current))
		}
		return model.OrderStatusCancelled, nil

	case EventReturn:
		if !CanReturn(current, deliveredAt, now) {
			return "", model.NewDomainError(model.ErrCodeInvalidTransition,
				"order is not eligible for return")
		}
		return model.OrderStatusReturned, nil
	}

	step, ok := forward[event]
	if !ok {
		return "", model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("unknown transition event %q", event))
	}
	if step.from != current {
		return "", model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot apply %q to order in status %q", event, current))
	}
	return step.to, nil
}
