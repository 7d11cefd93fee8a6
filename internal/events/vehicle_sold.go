package events

import "time"

const VehicleSoldTopic = "dms.vehicle.sold.v1"

type VehicleSoldEvent struct {
	EventType   string    `json:"event_type"`
	VehicleID   string    `json:"vehicle_id"`
	StockNumber string    `json:"stock_number"`
	SalePrice   float64   `json:"sale_price"`
	SoldBy      string    `json:"sold_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
