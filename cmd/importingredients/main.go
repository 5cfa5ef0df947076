package main

import (
	"encoding/csv"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/avolkov-dev/recipehub/internal/logging"
	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
	"github.com/avolkov-dev/recipehub/pkg/config"
)

// Loads the ingredient catalog from a CSV of "name,measurement_unit" rows.
// Re-running the import is safe; existing pairs are skipped.
func main() {
	file := flag.String("file", "ingredients.csv", "path to the ingredients CSV")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB()
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(&models.Ingredient{}); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("cannot open csv", "file", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	repo := repositories.NewPostgresIngredientRepository(db)
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	var created, skipped, rejected int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("csv read failed", "error", err)
			os.Exit(1)
		}

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if name == "" || unit == "" ||
			len(name) > config.IngredientNameMaxLength || len(unit) > config.MeasurementUnitMaxLength {
			logger.Warn("rejecting row", "name", record[0], "unit", record[1])
			rejected++
			continue
		}

		_, isNew, err := repo.GetOrCreateIngredient(name, unit)
		if err != nil {
			logger.Error("import failed", "name", name, "error", err)
			os.Exit(1)
		}
		if isNew {
			created++
		} else {
			skipped++
		}
	}

	logger.Info("import done", "created", created, "skipped", skipped, "rejected", rejected)
}
