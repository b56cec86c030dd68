package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dativo-io/shroud/internal/record"
)

func TestClassifyStandalone(t *testing.T) {
	e := MustNew()

	tests := []struct {
		name     string
		fields   record.FieldMap
		field    string
		wantKind Kind
		wantType string
	}{
		{
			name:     "ten digit phone in phone field",
			fields:   record.FieldMap{"phone": "9876543210"},
			field:    "phone",
			wantKind: KindStandalone,
			wantType: "phone",
		},
		{
			name:     "grouped phone with separators",
			fields:   record.FieldMap{"mobile": "98765 43210"},
			field:    "mobile",
			wantKind: KindStandalone,
			wantType: "phone",
		},
		{
			name:     "phone embedded in free text of an aliased field",
			fields:   record.FieldMap{"contact": "call 9876543210 after 6pm"},
			field:    "contact",
			wantKind: KindStandalone,
			wantType: "phone",
		},
		{
			name:     "ten digit run in unrecognized field still matches by shape",
			fields:   record.FieldMap{"txn_ref": "9876543210"},
			field:    "txn_ref",
			wantKind: KindStandalone,
			wantType: "phone",
		},
		{
			name:     "ten digits inside a longer run are not a phone",
			fields:   record.FieldMap{"txn_ref": "987654321012345"},
			field:    "txn_ref",
			wantKind: KindOrdinary,
		},
		{
			name:     "numeric phone value from JSON number",
			fields:   record.FieldMap{"phone": float64(9876543210)},
			field:    "phone",
			wantKind: KindStandalone,
			wantType: "phone",
		},
		{
			name:     "twelve digit aadhaar",
			fields:   record.FieldMap{"aadhar": "1234 5678 9012"},
			field:    "aadhar",
			wantKind: KindStandalone,
			wantType: "aadhaar",
		},
		{
			name:     "passport letter plus seven digits",
			fields:   record.FieldMap{"passport": "P1234567"},
			field:    "passport",
			wantKind: KindStandalone,
			wantType: "passport",
		},
		{
			name:     "passport shape in unrecognized field",
			fields:   record.FieldMap{"doc": "P1234567"},
			field:    "doc",
			wantKind: KindStandalone,
			wantType: "passport",
		},
		{
			name:     "upi handle by provider suffix",
			fields:   record.FieldMap{"payment_handle": "ravikumar@ybl"},
			field:    "payment_handle",
			wantKind: KindStandalone,
			wantType: "upi",
		},
		{
			name:     "upi handle by field alias",
			fields:   record.FieldMap{"upi_id": "9876543210@ybl"},
			field:    "upi_id",
			wantKind: KindStandalone,
			wantType: "upi",
		},
		{
			name:     "generic email is not a upi handle",
			fields:   record.FieldMap{"payment_handle": "ravi@email.com"},
			field:    "payment_handle",
			wantKind: KindCombinatorial,
			wantType: "email",
		},
		{
			name:     "luhn valid card number",
			fields:   record.FieldMap{"card_number": "4111 1111 1111 1111"},
			field:    "card_number",
			wantKind: KindStandalone,
			wantType: "credit_card",
		},
		{
			name:     "luhn valid card in unrecognized field",
			fields:   record.FieldMap{"payment": "4111111111111111"},
			field:    "payment",
			wantKind: KindStandalone,
			wantType: "credit_card",
		},
		{
			name:     "sixteen digits failing luhn stay ordinary",
			fields:   record.FieldMap{"payment": "4111111111111112"},
			field:    "payment",
			wantKind: KindOrdinary,
		},
		{
			name:     "dotted quad ip by shape",
			fields:   record.FieldMap{"client": "192.168.1.100"},
			field:    "client",
			wantKind: KindStandalone,
			wantType: "ip",
		},
		{
			name:     "ip field name with opaque value",
			fields:   record.FieldMap{"ip_address": "fe80::1"},
			field:    "ip_address",
			wantKind: KindStandalone,
			wantType: "ip",
		},
		{
			name:     "octet out of range is not an ip",
			fields:   record.FieldMap{"client": "300.1.2.3"},
			field:    "client",
			wantKind: KindOrdinary,
		},
		{
			name:     "order total stays ordinary",
			fields:   record.FieldMap{"order_value": float64(1299)},
			field:    "order_value",
			wantKind: KindOrdinary,
		},
		{
			name:     "empty value is ordinary even in aliased field",
			fields:   record.FieldMap{"phone": ""},
			field:    "phone",
			wantKind: KindOrdinary,
		},
		{
			name:     "null value is ordinary",
			fields:   record.FieldMap{"aadhaar": nil},
			field:    "aadhaar",
			wantKind: KindOrdinary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := e.Classify(tt.fields)
			tag, ok := tags[tt.field]
			require.True(t, ok, "every field gets a tag")
			assert.Equal(t, tt.wantKind, tag.Kind)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, tag.Type)
			}
		})
	}
}

func TestClassifyCombinatorial(t *testing.T) {
	e := MustNew()

	tests := []struct {
		name         string
		fields       record.FieldMap
		field        string
		wantKind     Kind
		wantCategory Category
	}{
		{
			name:         "two token name field",
			fields:       record.FieldMap{"name": "Ravi Kumar"},
			field:        "name",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryName,
		},
		{
			name:     "single token name does not qualify",
			fields:   record.FieldMap{"name": "Ravi"},
			field:    "name",
			wantKind: KindOrdinary,
		},
		{
			name:     "bare first_name does not qualify",
			fields:   record.FieldMap{"first_name": "Priya"},
			field:    "first_name",
			wantKind: KindOrdinary,
		},
		{
			name:         "first and last name pair qualifies",
			fields:       record.FieldMap{"first_name": "Priya", "last_name": "Sharma"},
			field:        "last_name",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryName,
		},
		{
			name:         "email shaped value in aliased field",
			fields:       record.FieldMap{"email": "ravi@email.com"},
			field:        "email",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryEmail,
		},
		{
			name:         "email shaped value in unrecognized field",
			fields:       record.FieldMap{"recovery": "ravi@email.com"},
			field:        "recovery",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryEmail,
		},
		{
			name:     "username without email shape stays ordinary",
			fields:   record.FieldMap{"username": "ravi123"},
			field:    "username",
			wantKind: KindOrdinary,
		},
		{
			name:         "dedicated address field",
			fields:       record.FieldMap{"address": "12 MG Road, Bangalore"},
			field:        "address",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryAddress,
		},
		{
			name:         "city and pin code pair",
			fields:       record.FieldMap{"city": "Bangalore", "pin_code": "560001"},
			field:        "pin_code",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryAddress,
		},
		{
			name:     "city without pin code stays ordinary",
			fields:   record.FieldMap{"city": "Bangalore"},
			field:    "city",
			wantKind: KindOrdinary,
		},
		{
			name:         "device identifier",
			fields:       record.FieldMap{"device_id": "D-99"},
			field:        "device_id",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryDeviceOrLocation,
		},
		{
			name:         "latitude longitude pair",
			fields:       record.FieldMap{"latitude": float64(12.9), "longitude": float64(77.6)},
			field:        "latitude",
			wantKind:     KindCombinatorial,
			wantCategory: CategoryDeviceOrLocation,
		},
		{
			name:     "latitude without longitude stays ordinary",
			fields:   record.FieldMap{"latitude": float64(12.9)},
			field:    "latitude",
			wantKind: KindOrdinary,
		},
		{
			name:     "product name stays ordinary",
			fields:   record.FieldMap{"product": "iPhone 14"},
			field:    "product",
			wantKind: KindOrdinary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := e.Classify(tt.fields)
			tag, ok := tags[tt.field]
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, tag.Kind)
			if tt.wantCategory != "" {
				assert.Equal(t, tt.wantCategory, tag.Category)
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	e := MustNew()

	// A UPI handle in an aliased field must be claimed by the standalone
	// recognizer, never demoted to a combinatorial email candidate.
	tags := e.Classify(record.FieldMap{"upi_id": "ravikumar@okaxis"})
	require.Equal(t, KindStandalone, tags["upi_id"].Kind)
	assert.Equal(t, "upi", tags["upi_id"].Type)

	// An ip field is standalone; it must not surface again as a
	// device_or_location candidate.
	tags = e.Classify(record.FieldMap{"ip": "10.0.0.1"})
	require.Equal(t, KindStandalone, tags["ip"].Kind)
	assert.Equal(t, "ip", tags["ip"].Type)
}

func TestClassifyEveryFieldTagged(t *testing.T) {
	e := MustNew()

	fields := record.FieldMap{
		"name":        "Ravi Kumar",
		"order_value": float64(1299),
		"in_stock":    true,
		"note":        nil,
	}
	tags := e.Classify(fields)
	assert.Len(t, tags, len(fields))
}
