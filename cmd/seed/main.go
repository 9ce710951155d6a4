package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/backend"
	"github.com/ikkim/storefront-backend/internal/catalogxlsx"
	"github.com/ikkim/storefront-backend/pkg/util"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer store.Close()

	catalog := service.NewCatalogService(store.Products, cfg.Shop.LowStockThreshold)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	result, err := catalogxlsx.Read(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Valid products: %d\n", len(result.Products))
	fmt.Printf("  Skipped rows: %d\n", result.Skipped)
	fmt.Printf("  Duplicate rows: %d\n", result.Duplicates)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported, existing := 0, 0
	for _, input := range result.Products {
		found, err := catalog.GetBySlug(ctx, util.Slugify(input.Title))
		if err != nil {
			log.Fatal("Failed to look up product:", err)
		}
		if found != nil {
			existing++
			continue
		}
		if _, err := catalog.CreateProduct(ctx, input); err != nil {
			log.Fatalf("Failed to create product %q: %v", input.Title, err)
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d (already present: %d)\n", imported, existing)
}
