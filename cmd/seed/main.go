package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/deiondz/udal-gp/internal/models"
	"github.com/deiondz/udal-gp/internal/repository"
	"github.com/deiondz/udal-gp/pkg/config"
	"github.com/deiondz/udal-gp/pkg/database"
	"github.com/deiondz/udal-gp/pkg/logger"
)

// seedRecord is one row of the JSON dataset: a panchayat with an optional
// inline performance observation.
type seedRecord struct {
	Name            string   `json:"name"`
	Taluk           string   `json:"taluk"`
	Village         string   `json:"village"`
	Sarpanch        string   `json:"sarpanch"`
	Status          string   `json:"status"`
	MRFUnitID       *string  `json:"mrfUnitId"`
	MRFUnitName     *string  `json:"mrfUnitName"`
	Households      int      `json:"households"`
	Shops           int      `json:"shops"`
	Institutions    int      `json:"institutions"`
	SWMSheds        int      `json:"swmSheds"`
	WetWaste        *float64 `json:"wetWaste"`
	DryWaste        *float64 `json:"dryWaste"`
	SanitaryWaste   *float64 `json:"sanitaryWaste"`
	Revenue         *float64 `json:"revenue"`
	ComplianceScore *float64 `json:"complianceScore"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	raw, err := os.ReadFile(cfg.Seed.DataFile)
	if err != nil {
		sugar.Fatalw("failed to read dataset", "file", cfg.Seed.DataFile, "error", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		sugar.Fatalw("failed to parse dataset", "file", cfg.Seed.DataFile, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Metrics reference panchayats, so they go first.
	if _, err := db.ExecContext(ctx, "DELETE FROM performance_metrics"); err != nil {
		sugar.Fatalw("failed to clear performance_metrics", "error", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM gram_panchayats"); err != nil {
		sugar.Fatalw("failed to clear gram_panchayats", "error", err)
	}

	panchayatRepo := repository.NewPanchayatRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)

	seeded, observed := 0, 0
	for _, rec := range records {
		status := models.PanchayatStatus(rec.Status)
		if status != models.PanchayatActive && status != models.PanchayatInactive {
			status = models.PanchayatActive
		}

		gp := &models.GramPanchayat{
			Name:         rec.Name,
			Taluk:        rec.Taluk,
			Village:      rec.Village,
			Sarpanch:     rec.Sarpanch,
			Status:       status,
			MRFMapped:    rec.MRFUnitID != nil,
			MRFUnitID:    rec.MRFUnitID,
			MRFUnitName:  rec.MRFUnitName,
			Households:   rec.Households,
			Shops:        rec.Shops,
			Institutions: rec.Institutions,
			SWMSheds:     rec.SWMSheds,
		}
		if err := panchayatRepo.Create(ctx, gp); err != nil {
			sugar.Fatalw("failed to seed panchayat", "name", rec.Name, "taluk", rec.Taluk, "error", err)
		}
		seeded++

		if rec.WetWaste == nil && rec.DryWaste == nil && rec.Revenue == nil {
			continue
		}
		m := &models.PerformanceMetrics{GramPanchayatID: gp.ID}
		if rec.WetWaste != nil {
			m.WetWaste = *rec.WetWaste
		}
		if rec.DryWaste != nil {
			m.DryWaste = *rec.DryWaste
		}
		if rec.SanitaryWaste != nil {
			m.SanitaryWaste = *rec.SanitaryWaste
		}
		if rec.Revenue != nil {
			m.Revenue = *rec.Revenue
		}
		if rec.ComplianceScore != nil {
			m.ComplianceScore = *rec.ComplianceScore
		}
		if err := metricsRepo.Insert(ctx, m); err != nil {
			sugar.Fatalw("failed to seed metrics", "name", rec.Name, "error", err)
		}
		observed++
	}

	sugar.Infow("seeding complete", "panchayats", seeded, "observations", observed)
}
