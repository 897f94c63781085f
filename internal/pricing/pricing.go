// Package pricing holds the shop's fixed pricing rules: the delivery fee
// zone table and the quantity discount tiers. All amounts are whole
// currency units (ARS).
package pricing

import "strings"

// FreeShippingThreshold is the subtotal at and above which delivery is free.
const FreeShippingThreshold = 15000

// defaultZoneRate applies to cities not present in the zone table.
const defaultZoneRate = 1500

// zoneRates maps normalized (lowercased) city names to flat delivery fees.
var zoneRates = map[string]int64{
	"capital federal": 800,
	"caba":            800,
	"buenos aires":    1200,
	"zona norte":      1000,
	"zona oeste":      1200,
	"zona sur":        1000,
}

// DeliveryFee returns the flat delivery fee for a destination city.
// Free above the free-shipping threshold; the city lookup is
// case-insensitive and falls back to the default rate.
// Pickup orders never reach this table; callers handle that case.
func DeliveryFee(city string, subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}

	if rate, ok := zoneRates[strings.ToLower(strings.TrimSpace(city))]; ok {
		return rate
	}
	return defaultZoneRate
}

// Discount returns the quantity discount for an order: 10% of the subtotal
// for 5 or more items, 5% for 3 or more, otherwise zero. Results are
// floored to a whole currency unit by integer division.
func Discount(subtotal int64, itemCount int) int64 {
	switch {
	case itemCount >= 5:
		return subtotal / 10
	case itemCount >= 3:
		return subtotal * 5 / 100
	}
	return 0
}
