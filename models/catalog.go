package models

import (
	"encoding/json"
	"fmt"
)

// CatalogItem is one purchasable menu item as served by the admin API.
// Legacy seed data carries a numeric id, remote items carry a Mongo-style
// string id; both may be present on the same record.
type CatalogItem struct {
	RemoteID     string  `json:"_id,omitempty" bson:"_id,omitempty"`
	LegacyID     int     `json:"id,omitempty" bson:"id,omitempty"`
	Name         string  `json:"name" bson:"name"`
	Description  string  `json:"description" bson:"description"`
	Price        float64 `json:"price" bson:"price"`
	Category     string  `json:"category" bson:"category"`
	Rating       float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Image        string  `json:"image,omitempty" bson:"image,omitempty"`
	IsPopular    bool    `json:"isPopular,omitempty" bson:"isPopular,omitempty"`
	IsNew        bool    `json:"isNew,omitempty" bson:"isNew,omitempty"`
	IsVegan      bool    `json:"isVegan,omitempty" bson:"isVegan,omitempty"`
	IsGlutenFree bool    `json:"isGlutenFree,omitempty" bson:"isGlutenFree,omitempty"`
	PrepTime     int     `json:"prepTime,omitempty" bson:"prepTime,omitempty"`
	Calories     int     `json:"calories,omitempty" bson:"calories,omitempty"`
}

// ResolveID collapses the dual identity scheme into one string key.
// Remote id wins, then the legacy numeric id, then a positional placeholder.
// Every call site that compares item identity must go through this.
func ResolveID(item CatalogItem, position int) string {
	if item.RemoteID != "" {
		return item.RemoteID
	}
	if item.LegacyID != 0 {
		return fmt.Sprintf("%d", item.LegacyID)
	}
	return fmt.Sprintf("item-%d", position)
}

// APIEnvelope is the admin API's standard response wrapper.
type APIEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
