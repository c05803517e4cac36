package api

import (
	"context"

	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

const categoriesPath = "/categories"

// ListCategories accepts a bare array or one wrapped under data, list or
// categories. Any other shape, even an unparseable body, yields no
// categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	data, err := c.t.Get(ctx, categoriesPath, nil)
	if err != nil {
		return nil, err
	}
	recs, ok := wire.UnwrapList(data, wire.CategoryListKeys...)
	if !ok {
		c.log.Warn().Str("body", wire.Preview(data)).Msg("Unparseable category listing, treating as empty")
	}
	return wire.MapAll(recs, wire.MapCategory), nil
}

// CreateCategory creates a category in the client's ledger.
func (c *Client) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	p := wire.ToCategoryPayload(in)
	p.LedgerID = c.ledger(0)
	r, err := c.postRecord(ctx, categoriesPath, p)
	if err != nil {
		return model.Category{}, err
	}
	return wire.MapCategory(r), nil
}

// UpdateCategory patches a category. A nil ParentID makes it a root.
func (c *Client) UpdateCategory(ctx context.Context, id int64, in model.CategoryInput) (model.Category, error) {
	r, err := c.patchRecord(ctx, itemPath(categoriesPath, id), wire.ToCategoryPayload(in))
	if err != nil {
		return model.Category{}, err
	}
	return wire.MapCategory(r), nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.t.Delete(ctx, itemPath(categoriesPath, id))
	return err
}
