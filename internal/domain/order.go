// Package domain holds the pure data types shared across the SDK. Nothing in
// this package performs I/O; validation and wire encoding live in the packages
// that consume these types.
package domain

import "math/big"

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderParams are the inputs from which a deterministic order ID is derived.
// Every field participates in the derivation: changing any single field must
// change the resulting ID.
type OrderParams struct {
	// UserAddress is the 20-byte account placing the order, hex encoded.
	UserAddress string

	// MarketID identifies the market (free-form string, hashed into the ID).
	MarketID string

	// Side is the order direction.
	Side Side

	// Size is the order size in the smallest USDC unit (6 decimals).
	Size *big.Int

	// Price is the normalized outcome probability in [0, 1].
	Price float64

	// TimestampMS is the order creation time in milliseconds since epoch.
	TimestampMS int64

	// ChainID binds the order to one chain (137 for Polygon).
	ChainID int64
}
