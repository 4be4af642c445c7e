package types

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DeliveryConfirmation is the mutable sub-record embedded in a
// delivery-confirmation chat message. It is the one message payload that is
// updated in place after creation: the buyer's response overwrites Confirmed
// and stamps ConfirmedAt on the most recent matching message.
type DeliveryConfirmation struct {
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// Value serializes the confirmation record to JSON.
func (d *DeliveryConfirmation) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan decodes JSONB into the confirmation struct.
func (d *DeliveryConfirmation) Scan(value interface{}) error {
	if value == nil {
		*d = DeliveryConfirmation{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, d)
}
