// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Category is a billing category assigned to a message.
type Category string

// Billing category constants.
const (
	CategoryAuthentication Category = "AUTHENTICATION"
	CategoryMarketing      Category = "MARKETING"
	CategoryUtility        Category = "UTILITY"
	CategoryService        Category = "SERVICE"
)

// AllCategories lists every billing category in a stable order.
var AllCategories = []Category{
	CategoryAuthentication,
	CategoryMarketing,
	CategoryUtility,
	CategoryService,
}

// ParseCategory converts a raw string into a Category, case-insensitively.
// The second return value reports whether the input named a known category.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryAuthentication:
		return CategoryAuthentication, true
	case CategoryMarketing:
		return CategoryMarketing, true
	case CategoryUtility:
		return CategoryUtility, true
	case CategoryService:
		return CategoryService, true
	}
	return CategoryService, false
}

// Direction indicates whether a message was sent or received.
type Direction string

// Message direction constants.
const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)
