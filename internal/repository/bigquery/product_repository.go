package bigquery

import (
	"context"
	"fmt"
	"lookFeed/domain"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// ProductRepository is the analytical fallback catalog. It serves the same
// batched-lookup contract as the Postgres repository and is only consulted
// when the primary store yields nothing.
type ProductRepository struct {
	client  *bigquery.Client
	dataset string
	table   string
}

func NewProductRepository(ctx context.Context, project, dataset, table string) (*ProductRepository, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}

	return &ProductRepository{
		client:  client,
		dataset: dataset,
		table:   table,
	}, nil
}

type productRow struct {
	ProductID    string                 `bigquery:"product_id"`
	Title        bigquery.NullString    `bigquery:"title"`
	Price        bigquery.NullFloat64   `bigquery:"price"`
	Currency     bigquery.NullString    `bigquery:"currency"`
	Availability bigquery.NullString    `bigquery:"availability"`
	Images       []string               `bigquery:"images"`
	Category     bigquery.NullString    `bigquery:"category"`
	Brand        bigquery.NullString    `bigquery:"brand"`
	Vendor       bigquery.NullString    `bigquery:"vendor"`
	Description  bigquery.NullString    `bigquery:"description"`
	URL          bigquery.NullString    `bigquery:"url"`
	LikeCount    bigquery.NullInt64     `bigquery:"like_count"`
	CreatedAt    bigquery.NullTimestamp `bigquery:"created_at"`
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.client.Query(fmt.Sprintf(
		"SELECT product_id, title, price, currency, availability, images, "+
			"category, brand, vendor, description, url, like_count, created_at "+
			"FROM `%s.%s.%s` WHERE product_id IN UNNEST(@ids)",
		r.client.Project(), r.dataset, r.table,
	))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "ids", Value: ids},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query bigquery products: %w", err)
	}

	var products []domain.Product
	for {
		var row productRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bigquery row: %w", err)
		}
		products = append(products, rowToProduct(row))
	}

	return products, nil
}

func (r *ProductRepository) Close() error {
	return r.client.Close()
}

func rowToProduct(row productRow) domain.Product {
	p := domain.Product{
		ProductID: row.ProductID,
		Images:    row.Images,
	}

	if row.Title.Valid {
		p.Title = &row.Title.StringVal
	}
	if row.Price.Valid {
		p.Price = &row.Price.Float64
	}
	if row.Currency.Valid {
		p.Currency = &row.Currency.StringVal
	}
	if row.Availability.Valid {
		p.Availability = &row.Availability.StringVal
	}
	if row.Category.Valid {
		p.Category = &row.Category.StringVal
	}
	if row.Brand.Valid {
		p.Brand = &row.Brand.StringVal
	}
	if row.Vendor.Valid {
		p.Vendor = &row.Vendor.StringVal
	}
	if row.Description.Valid {
		p.Description = &row.Description.StringVal
	}
	if row.URL.Valid {
		p.URL = &row.URL.StringVal
	}
	if row.LikeCount.Valid {
		p.LikeCount = row.LikeCount.Int64
	}
	if row.CreatedAt.Valid {
		t := row.CreatedAt.Timestamp
		p.CreatedAt = &t
	}

	return p
}
