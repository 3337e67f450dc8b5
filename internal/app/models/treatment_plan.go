package models

import "go.mongodb.org/mongo-driver/bson"

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type TreatmentPlan struct {
	ID            FlexibleID     `json:"id" bson:"_id"`
	PatientID     FlexibleID     `json:"patient_id" bson:"patient_id"`
	PaymentStatus PaymentStatus  `json:"payment_status" bson:"payment_status"`
	PaymentDate   CalendarDate   `json:"payment_date" bson:"payment_date"`
	Services      []PlanLineItem `json:"services" bson:"services"`
}

// PlanLineItem keeps all three historical spellings of the service
// identifier; see compensations.ResolveServiceID for precedence.
type PlanLineItem struct {
	ServiceID       FlexibleID `json:"service_id,omitempty" bson:"service_id"`
	ID              FlexibleID `json:"id,omitempty" bson:"id"`
	LegacyServiceID FlexibleID `json:"serviceId,omitempty" bson:"serviceId"`
	Name            string     `json:"name,omitempty" bson:"name,omitempty"`
	Price           float64    `json:"price" bson:"price"`
	Quantity        *float64   `json:"quantity,omitempty" bson:"quantity"`
	Discount        *float64   `json:"discount,omitempty" bson:"discount"`
}

// UnmarshalBSON reads a line item without failing on badly typed fields.
// A price that is not numeric counts as 0; a quantity or discount that is
// not numeric counts as absent.
func (item *PlanLineItem) UnmarshalBSON(data []byte) error {
	var raw struct {
		ServiceID       FlexibleID    `bson:"service_id"`
		ID              FlexibleID    `bson:"id"`
		LegacyServiceID FlexibleID    `bson:"serviceId"`
		Name            bson.RawValue `bson:"name"`
		Price           bson.RawValue `bson:"price"`
		Quantity        bson.RawValue `bson:"quantity"`
		Discount        bson.RawValue `bson:"discount"`
	}
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}

	price, _ := numberFromRaw(raw.Price)
	*item = PlanLineItem{
		ServiceID:       raw.ServiceID,
		ID:              raw.ID,
		LegacyServiceID: raw.LegacyServiceID,
		Name:            stringFromRaw(raw.Name),
		Price:           price,
		Quantity:        optionalNumber(raw.Quantity),
		Discount:        optionalNumber(raw.Discount),
	}
	return nil
}
