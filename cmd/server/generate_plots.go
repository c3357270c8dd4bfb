package main

// Helper: go run ./cmd/server -generate-plots -section B -blocks 2 -lots-per-block 20
// Bulk-creates a grid of Available plots for a new section, skipping
// identifiers that already exist.

import (
	"flag"
	"fmt"
	"log"

	"github.com/paraiso360/paraiso360/internal/db"
	"github.com/paraiso360/paraiso360/internal/models"

	"github.com/google/uuid"
)

var (
	generatePlotsFlag = flag.Bool("generate-plots", false, "Generate a plot grid for a section and exit")
	genSection        = flag.String("section", "A", "Section to generate plots in")
	genBlocks         = flag.Int("blocks", 1, "Number of blocks to generate")
	genLotsPerBlock   = flag.Int("lots-per-block", 10, "Lots per block")
	genPlotType       = flag.String("plot-type", "Lawn Lot", "Plot type for generated lots")
	genCapacity       = flag.Int("capacity", 2, "Capacity for generated lots")
)

func runGeneratePlots() {
	conn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	created := 0
	for b := 1; b <= *genBlocks; b++ {
		block := fmt.Sprintf("%02d", b)
		for l := 1; l <= *genLotsPerBlock; l++ {
			lot := fmt.Sprintf("%03d", l)
			var dup int64
			conn.Model(&models.Plot{}).
				Where("section = ? AND block_number = ? AND lot_number = ?", *genSection, block, lot).
				Count(&dup)
			if dup > 0 {
				continue
			}
			p := models.Plot{
				ID:          uuid.NewString(),
				Section:     *genSection,
				BlockNumber: block,
				LotNumber:   lot,
				Type:        *genPlotType,
				Status:      models.StatusAvailable,
				Capacity:    *genCapacity,
			}
			if err := conn.Create(&p).Error; err == nil {
				created++
			}
		}
	}
	log.Printf("Plot generation done: %d created in section %s", created, *genSection)
}
