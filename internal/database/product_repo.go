package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/seligo-ai/seligo/internal/catalog"
)

// ProductRepo is the sqlite-backed product catalog. Pages are keyset
// paginated on id; the opaque cursor is the last id of the prior page.
type ProductRepo struct {
	db *DB
}

func NewProductRepo(db *DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// FetchPage returns up to pageSize products matching any of the given
// tags (all products when tags is empty), resuming after cursor.
func (r *ProductRepo) FetchPage(ctx context.Context, tags []string, pageSize int, cursor string) (catalog.Page, error) {
	var (
		conds []string
		args  []interface{}
	)

	if cursor != "" {
		conds = append(conds, "id > ?")
		args = append(args, cursor)
	}

	// Firestore allows at most 10 values in an any-of tag filter; the
	// interest picker caps at 10, keep the same bound here.
	if len(tags) > 10 {
		tags = tags[:10]
	}
	if len(tags) > 0 {
		tagConds := make([]string, len(tags))
		for i, t := range tags {
			tagConds[i] = "tags LIKE ?"
			args = append(args, `%"`+t+`"%`)
		}
		conds = append(conds, "("+strings.Join(tagConds, " OR ")+")")
	}

	query := "SELECT id, name, brand, price, description, category, image_url, tags, sponsored, variant_id FROM products"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, pageSize)

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("%w: %v", catalog.ErrFetchFailed, err)
	}
	defer rows.Close()

	var page catalog.Page
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return catalog.Page{}, fmt.Errorf("%w: %v", catalog.ErrFetchFailed, err)
		}
		page.Items = append(page.Items, p)
	}
	if err := rows.Err(); err != nil {
		return catalog.Page{}, fmt.Errorf("%w: %v", catalog.ErrFetchFailed, err)
	}

	if n := len(page.Items); n > 0 {
		page.Cursor = page.Items[n-1].ID
	} else {
		page.Cursor = cursor
	}
	page.HasMore = len(page.Items) == pageSize
	return page, nil
}

// GetByID returns a single product, or nil when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	row := r.db.conn.QueryRowContext(ctx,
		"SELECT id, name, brand, price, description, category, image_url, tags, sponsored, variant_id FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// Insert adds or replaces a product (used by the seeder).
func (r *ProductRepo) Insert(ctx context.Context, p catalog.Product) error {
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO products (
			id, name, brand, price, description, category, image_url, tags, sponsored, variant_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.conn.ExecContext(ctx, query,
		p.ID, p.Name, p.Brand, p.Price, p.Description, p.Category,
		p.ImageURL, string(tagsJSON), boolToInt(p.Sponsored), p.VariantID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Count returns the number of products in the catalog.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var (
		p         catalog.Product
		tagsStr   string
		sponsored int
	)
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Description,
		&p.Category, &p.ImageURL, &tagsStr, &sponsored, &p.VariantID)
	if err != nil {
		return catalog.Product{}, err
	}
	if tagsStr != "" {
		if err := json.Unmarshal([]byte(tagsStr), &p.Tags); err != nil {
			p.Tags = nil
		}
	}
	p.Sponsored = sponsored != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
