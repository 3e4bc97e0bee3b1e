// Package publish exports the catalog as static markdown: an index page plus
// one page per product, suitable for dropping into any static site generator.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"larder-cli/internal/model"
	"larder-cli/internal/store"
)

type WriteOptions struct {
	IncludeArchived bool
	IncludeReviews  bool
	Overwrite       bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func WriteProduct(db *store.DB, productID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return WriteResult{}, errors.New("missing productID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderProductMarkdown(db, productID, RenderOptions{
		IncludeArchived: opt.IncludeArchived,
		IncludeReviews:  opt.IncludeReviews,
	})
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(toDir, "products")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, productID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteCatalog writes the index page and every product page under toDir.
// Stops on the first error.
func WriteCatalog(db *store.DB, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	all := make([]*model.Product, 0, len(db.Products))
	for i := range db.Products {
		all = append(all, &db.Products[i])
	}

	productsDir := filepath.Join(toDir, "products")
	if err := os.MkdirAll(productsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexMD, err := RenderCatalogIndexMarkdown(db, all, RenderOptions{
		IncludeArchived: opt.IncludeArchived,
		IncludeReviews:  opt.IncludeReviews,
	})
	if err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	for _, p := range all {
		if p.Archived && !opt.IncludeArchived {
			continue
		}
		md, err := RenderProductMarkdown(db, p.ID, RenderOptions{
			IncludeArchived: opt.IncludeArchived,
			IncludeReviews:  opt.IncludeReviews,
		})
		if err != nil {
			return WriteResult{}, err
		}
		path := filepath.Join(productsDir, p.ID+".md")
		if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, path)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
