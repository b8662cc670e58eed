// cmd/tools/listings-importer/main.go
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"steadyone-workers/internal/common/config"
	"steadyone-workers/internal/common/database"
	"steadyone-workers/internal/models"
)

const upsertQuery = `
	INSERT INTO listings (id, price, bedrooms, bathrooms, borough, neighborhood,
		pets_allowed, description, image_url, apply_url, amenities, status, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		price = EXCLUDED.price,
		bedrooms = EXCLUDED.bedrooms,
		bathrooms = EXCLUDED.bathrooms,
		borough = EXCLUDED.borough,
		neighborhood = EXCLUDED.neighborhood,
		pets_allowed = EXCLUDED.pets_allowed,
		description = EXCLUDED.description,
		image_url = EXCLUDED.image_url,
		apply_url = EXCLUDED.apply_url,
		amenities = EXCLUDED.amenities,
		status = EXCLUDED.status,
		updated_at = EXCLUDED.updated_at`

func main() {
	filePath := flag.String("file", "", "Path to the listings CSV file")
	dryRun := flag.Bool("dry-run", false, "Parse and report without writing")
	flag.Parse()

	if *filePath == "" {
		fmt.Println("Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config load failed: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		fmt.Printf("failed to open %s: %v\n", *filePath, err)
		os.Exit(1)
	}
	defer f.Close()

	listings, skipped, err := parseListings(f)
	if err != nil {
		fmt.Printf("failed to parse %s: %v\n", *filePath, err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d listings (%d rows skipped)\n", len(listings), skipped)

	if *dryRun {
		return
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("postgres connection failed: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx := context.Background()
	imported := 0
	for _, l := range listings {
		amenities, _ := json.Marshal(l.Amenities)
		_, err := pg.DB.ExecContext(ctx, upsertQuery,
			l.ID, l.Price, l.Bedrooms, l.Bathrooms, l.Borough, l.Neighborhood,
			l.PetsAllowed, l.Description, l.ImageURL, l.ApplyURL, amenities,
			string(l.Status), time.Now().UTC())
		if err != nil {
			fmt.Printf("upsert failed for %s: %v\n", l.ID, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d of %d listings\n", imported, len(listings))
}

// parseListings reads the CSV export. Rows missing an id or with an
// unparseable price are skipped, not fatal.
func parseListings(r io.Reader) ([]models.Listing, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "price", "bedrooms", "borough"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var listings []models.Listing
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		id := field(record, "id")
		price, priceErr := strconv.Atoi(field(record, "price"))
		if id == "" || priceErr != nil {
			skipped++
			continue
		}

		bedrooms, _ := strconv.Atoi(field(record, "bedrooms"))
		bathrooms, _ := strconv.ParseFloat(field(record, "bathrooms"), 64)

		l := models.Listing{
			ID:           id,
			Price:        price,
			Bedrooms:     bedrooms,
			Bathrooms:    bathrooms,
			Borough:      field(record, "borough"),
			Neighborhood: field(record, "neighborhood"),
			Description:  field(record, "description"),
			ImageURL:     field(record, "image_url"),
			ApplyURL:     field(record, "apply_url"),
			Status:       models.ListingStatus(field(record, "status")),
		}
		if l.Status == "" {
			l.Status = models.ListingStatusActive
		}

		if petsRaw := field(record, "pets_allowed"); petsRaw != "" {
			pets, parseErr := strconv.ParseBool(petsRaw)
			if parseErr == nil {
				l.PetsAllowed = &pets
			}
		}

		if amenitiesRaw := field(record, "amenities"); amenitiesRaw != "" {
			for _, a := range strings.Split(amenitiesRaw, "|") {
				if a = strings.TrimSpace(a); a != "" {
					l.Amenities = append(l.Amenities, a)
				}
			}
		}

		listings = append(listings, l)
	}

	return listings, skipped, nil
}
