package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// Generates a synthetic one-day NETC transaction CSV for local runs:
//
//	go run gen_dataset.go out.csv [rows]

type plaza struct {
	name    string
	geocode string
}

var plazas = []plaza{
	{"Electronic City Phase 1", "12.8440,77.6630"},
	{"Attibele Toll Plaza", "12.7780,77.7710"},
	{"Hosur Road Plaza", "12.8510,77.6580"},
	{"Devanahalli Toll Plaza", "13.2430,77.7080"},
	{"Nelamangala Plaza", "13.0990,77.3940"},
	{"Kadubeesanahalli", "12.9430,77.6970"},
}

var vehicleClasses = []string{"VC4", "VC4", "VC4", "VC5", "VC5", "VC7", "VC9", "VC10", "VC11", "VC12", "VC13", "VC20"}

// Hourly demand weights, peaking morning and evening.
var hourWeights = []int{
	1, 1, 1, 1, 2, 3, 6, 9, 10, 8, 6, 5,
	5, 5, 5, 6, 7, 9, 10, 8, 5, 3, 2, 1,
}

func pickHour(r *rand.Rand) int {
	total := 0
	for _, w := range hourWeights {
		total += w
	}
	n := r.Intn(total)
	for h, w := range hourWeights {
		n -= w
		if n < 0 {
			return h
		}
	}
	return 12
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run gen_dataset.go <out.csv> [rows]")
		os.Exit(1)
	}
	out := os.Args[1]
	rows := 5000
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil || parsed <= 0 {
			fmt.Printf("Error: invalid row count %q\n", os.Args[2])
			os.Exit(1)
		}
		rows = parsed
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Printf("Error creating %s: %v\n", out, err)
		os.Exit(1)
	}
	defer f.Close()

	r := rand.New(rand.NewSource(42))
	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"tag_id", "merchant_name", "initiated_time", "geocode", "vehicle_class_code", "lane", "direction", "inn_rr_time_sec"}
	if err := w.Write(header); err != nil {
		fmt.Printf("Error writing header: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < rows; i++ {
		p := plazas[r.Intn(len(plazas))]
		hour := pickHour(r)
		initiated := fmt.Sprintf("15-01-2024 %02d:%02d", hour, r.Intn(60))
		// A small share of rows carry the malformed timestamps seen in the
		// real export.
		if r.Intn(100) < 2 {
			initiated = fmt.Sprintf("%02d:%02d", hour, r.Intn(60))
		}

		direction := "N"
		if r.Intn(100) < 45 {
			direction = "S"
		}

		record := []string{
			uuid.New().String(),
			p.name,
			initiated,
			p.geocode,
			vehicleClasses[r.Intn(len(vehicleClasses))],
			fmt.Sprintf("L%d", r.Intn(4)+1),
			direction,
			fmt.Sprintf("%.1f", 2.0+r.Float64()*10),
		}
		if err := w.Write(record); err != nil {
			fmt.Printf("Error writing row %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	fmt.Printf("✓ Wrote %d transactions to %s\n", rows, out)
}
