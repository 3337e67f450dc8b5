package models

import "go.mongodb.org/mongo-driver/bson"

type PaymentType string

const (
	PaymentTypePercentage PaymentType = "percentage"
	PaymentTypeFixed      PaymentType = "fixed"
	PaymentTypeHybrid     PaymentType = "hybrid"
)

func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypePercentage, PaymentTypeFixed, PaymentTypeHybrid:
		return true
	}
	return false
}

type Doctor struct {
	ID                    FlexibleID   `json:"id" bson:"_id"`
	Name                  string       `json:"name" bson:"name"`
	Specialization        string       `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Services              []FlexibleID `json:"services" bson:"services"`
	PaymentType           PaymentType  `json:"payment_type" bson:"payment_type"`
	PaymentValue          *float64     `json:"payment_value" bson:"payment_value"`
	HybridPercentageValue *float64     `json:"hybrid_percentage_value" bson:"hybrid_percentage_value"`
}

// UnmarshalBSON reads a doctor document without failing on badly typed
// fields. Payment settings that are not numeric decode as missing.
func (d *Doctor) UnmarshalBSON(data []byte) error {
	var raw struct {
		ID                    FlexibleID    `bson:"_id"`
		Name                  bson.RawValue `bson:"name"`
		Specialization        bson.RawValue `bson:"specialization"`
		Services              bson.RawValue `bson:"services"`
		PaymentType           bson.RawValue `bson:"payment_type"`
		PaymentValue          bson.RawValue `bson:"payment_value"`
		HybridPercentageValue bson.RawValue `bson:"hybrid_percentage_value"`
	}
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Doctor{
		ID:                    raw.ID,
		Name:                  stringFromRaw(raw.Name),
		Specialization:        stringFromRaw(raw.Specialization),
		Services:              flexibleIDsFromRaw(raw.Services),
		PaymentType:           PaymentType(stringFromRaw(raw.PaymentType)),
		PaymentValue:          optionalNumber(raw.PaymentValue),
		HybridPercentageValue: optionalNumber(raw.HybridPercentageValue),
	}
	return nil
}

// ServiceSet returns the doctor's credited services for membership checks.
// Empty identifiers are never credited.
func (d Doctor) ServiceSet() map[FlexibleID]struct{} {
	set := make(map[FlexibleID]struct{}, len(d.Services))
	for _, service := range d.Services {
		if service.IsEmpty() {
			continue
		}
		set[service] = struct{}{}
	}
	return set
}
