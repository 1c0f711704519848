package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ikkim/udonggeum-backend/config"
	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/db"
	"github.com/ikkim/udonggeum-backend/pkg/util"
)

// Seeds the database with defaults (permissions, system roles, super
// admin), and optionally bulk imports products from an XLSX catalog:
//
//	go run cmd/seed/main.go [xlsx_file_path]
//
// Expected columns: name, sku, price, quantity, category_slug, status,
// description. The first row is treated as a header.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed defaults:", err)
	}
	fmt.Println("Default permissions, roles and super admin seeded.")

	if len(os.Args) < 2 {
		return
	}

	filePath := os.Args[1]
	fmt.Printf("Reading XLSX file: %s\n", filePath)

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	products, skipped, err := readProductsFromXLSX(filePath, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped %d rows)\n", len(products), skipped)
	if len(products) == 0 {
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	batchSize := 500
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Printf("Import completed: %d products\n", len(products))
}

func readProductsFromXLSX(filePath string, categoryRepo repository.CategoryRepository) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("sheet %q has no data rows", sheetName)
	}

	// Category slugs repeat heavily across catalog rows, resolve each once.
	categoryIDs := map[string]*model.Category{}

	var products []model.Product
	skipped := 0
	for i, row := range rows[1:] {
		rowNum := i + 2

		name := cell(row, 0)
		sku := cell(row, 1)
		if name == "" || sku == "" {
			fmt.Printf("Row %d: missing name or sku, skipping\n", rowNum)
			skipped++
			continue
		}

		price, err := decimal.NewFromString(cell(row, 2))
		if err != nil || price.IsNegative() {
			fmt.Printf("Row %d: invalid price %q, skipping\n", rowNum, cell(row, 2))
			skipped++
			continue
		}

		quantity, _ := strconv.Atoi(cell(row, 3))
		if quantity < 0 {
			quantity = 0
		}

		product := model.Product{
			Name:        name,
			Slug:        util.Slugify(name),
			SKU:         sku,
			Price:       price,
			Quantity:    quantity,
			Status:      model.ProductDraft,
			Description: cell(row, 6),
		}

		if slug := cell(row, 4); slug != "" {
			category, seen := categoryIDs[slug]
			if !seen {
				category, err = categoryRepo.FindBySlug(slug)
				if err != nil {
					fmt.Printf("Row %d: unknown category %q, importing without category\n", rowNum, slug)
					category = nil
				}
				categoryIDs[slug] = category
			}
			if category != nil {
				product.CategoryID = &category.ID
			}
		}

		if status := model.ProductStatus(strings.ToLower(cell(row, 5))); status != "" {
			switch status {
			case model.ProductDraft, model.ProductActive, model.ProductInactive, model.ProductOutOfStock:
				product.Status = status
			default:
				fmt.Printf("Row %d: unknown status %q, defaulting to draft\n", rowNum, status)
			}
		}

		products = append(products, product)
	}

	return products, skipped, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
