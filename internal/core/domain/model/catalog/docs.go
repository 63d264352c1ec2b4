// Package catalog is the read-only view of the products shops sell.
// Order aggregation reads a product's current price and weight from here.
package catalog
