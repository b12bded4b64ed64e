package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     product_id    TEXT PRIMARY KEY,
//     title         TEXT,
//     price         NUMERIC,
//     currency      TEXT,
//     availability  TEXT,
//     images        JSONB,
//     category      TEXT,
//     brand         TEXT,
//     vendor        TEXT,
//     description   TEXT,
//     url           TEXT,
//     like_count    BIGINT DEFAULT 0,
//     created_at    TIMESTAMPTZ DEFAULT NOW(),
//     updated_at    TIMESTAMPTZ,
//     parsed_at     TIMESTAMPTZ
// );

type Product struct {
	ProductID    string                      `gorm:"column:product_id;primaryKey" json:"id"`
	Title        *string                     `gorm:"column:title;type:text" json:"title"`
	Price        *float64                    `gorm:"column:price;type:numeric" json:"price"`
	Currency     *string                     `gorm:"column:currency;type:text" json:"currency"`
	Availability *string                     `gorm:"column:availability;type:text" json:"availability"`
	Images       datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Category     *string                     `gorm:"column:category;type:text" json:"category"`
	Brand        *string                     `gorm:"column:brand;type:text" json:"brand"`
	Vendor       *string                     `gorm:"column:vendor;type:text" json:"-"`
	Description  *string                     `gorm:"column:description;type:text" json:"description"`
	URL          *string                     `gorm:"column:url;type:text" json:"url"`
	LikeCount    int64                       `gorm:"column:like_count;default:0" json:"like_count"`
	CreatedAt    *time.Time                  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time                  `gorm:"column:updated_at" json:"-"`
	ParsedAt     *time.Time                  `gorm:"column:parsed_at" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// StubProduct returns an ID-only record used when neither catalog store can
// resolve the id and the stub policy is enabled.
func StubProduct(id string) Product {
	return Product{ProductID: id}
}
