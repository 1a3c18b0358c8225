// internal/app/system/seed/seed.go

// Package seed installs baseline reference data on first startup. Seeding
// only runs against empty collections, so it is safe to call on every boot.
package seed

import (
	"context"

	keywordstore "github.com/sciencebridge/sciencebridge/internal/app/store/keywords"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// defaultKeywords is the starter discovery vocabulary. Admins extend it
// later; codes are stable identifiers and never change.
var defaultKeywords = []keywordstore.SeedEntry{
	{Code: "machine-learning", Label: "Machine Learning"},
	{Code: "data-science", Label: "Data Science"},
	{Code: "robotics", Label: "Robotics"},
	{Code: "embedded-systems", Label: "Embedded Systems"},
	{Code: "renewable-energy", Label: "Renewable Energy"},
	{Code: "water-treatment", Label: "Water Treatment"},
	{Code: "biotech", Label: "Biotechnology"},
	{Code: "genomics", Label: "Genomics"},
	{Code: "materials", Label: "Materials Science"},
	{Code: "nanotech", Label: "Nanotechnology"},
	{Code: "agronomy", Label: "Agronomy"},
	{Code: "food-science", Label: "Food Science"},
	{Code: "telecom", Label: "Telecommunications"},
	{Code: "cybersecurity", Label: "Cybersecurity"},
	{Code: "cloud-computing", Label: "Cloud Computing"},
	{Code: "iot", Label: "Internet of Things"},
	{Code: "medical-imaging", Label: "Medical Imaging"},
	{Code: "public-health", Label: "Public Health"},
	{Code: "logistics", Label: "Logistics & Supply Chain"},
	{Code: "fintech", Label: "Financial Technology"},
}

// Keywords installs the default vocabulary when the collection is empty.
func Keywords(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := keywordstore.New(db)

	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if err := store.Seed(ctx, defaultKeywords); err != nil {
		return err
	}
	logger.Info("seeded keyword vocabulary", zap.Int("count", len(defaultKeywords)))
	return nil
}
