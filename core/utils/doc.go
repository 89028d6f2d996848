// Package utils provides common utility functions for the price tracker.
// It mainly covers type coercion of loosely typed values found in retailer
// payloads, where the same field may arrive as a string, number, or bool
// depending on the source.
package utils
