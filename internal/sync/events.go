package sync

import (
	"time"

	"shopcatalog/pkg/models"
)

const SnapshotEvent = "catalog.snapshot"

type CatalogEvent struct {
	Type     string                                     `json:"type"`
	Seq      uint64                                     `json:"seq"`
	Query    string                                     `json:"query"`
	Count    int                                        `json:"count"`
	Products []models.ProductWithCategoryAndSubcategory `json:"products"`
	At       time.Time                                  `json:"at"`
}
