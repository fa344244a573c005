// Command genevents writes a small synthetic earthquake catalog CSV for
// local runs and fixtures. The rows use real significant events so the
// station resolver and window math exercise realistic values.
//
// Usage:
//
//	go run ./cmd/genevents -out data/sample_catalog.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
)

type sampleEvent struct {
	title     string
	magnitude float64
	dateTime  string // catalog-native day-month-year format
	lat, lon  float64
	location  string
	depth     float64
	sig       int
}

var samples = []sampleEvent{
	{"M 7.8 - Pazarcik earthquake, Kahramanmaras", 7.8, "06-02-2023 01:17", 37.1662, 37.0421, "Turkey", 17.9, 2080},
	{"M 9.1 - Tohoku earthquake, near the east coast of Honshu", 9.1, "11-03-2011 05:46", 38.2970, 142.3730, "Japan", 29.0, 2910},
	{"M 7.0 - Haiti region", 7.0, "12-01-2010 21:53", 18.4430, -72.5710, "Haiti", 13.0, 1790},
	{"M 8.8 - offshore Bio-Bio, Chile", 8.8, "27-02-2010 06:34", -36.1220, -72.8980, "Chile", 22.9, 2000},
	{"M 7.8 - Kaikoura, New Zealand", 7.8, "13-11-2016 11:02", -42.7373, 173.0540, "New Zealand", 15.1, 1500},
	{"M 7.9 - Gorkha earthquake, Nepal", 7.9, "25-04-2015 06:11", 28.2305, 84.7314, "Nepal", 8.2, 1930},
	{"M 6.4 - southern California", 6.4, "04-07-2019 17:33", 35.7053, -117.5038, "California", 10.5, 940},
	// Deliberately bad rows: the loader must drop the first (no coordinates)
	// and skip the second (unparseable date) without failing the run.
	{"M 6.0 - missing coordinates", 6.0, "01-01-2020 00:00", 0, 0, "Unknown", 0, 500},
	{"M 6.1 - bad date", 6.1, "not-a-date", 10.0, 20.0, "Unknown", 0, 510},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/sample_catalog.csv", "output path for the catalog CSV")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"title", "magnitude", "date_time", "latitude", "longitude", "location", "depth", "sig"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, s := range samples {
		lat, lon := formatCoord(s.lat), formatCoord(s.lon)
		if s.title == "M 6.0 - missing coordinates" {
			lat, lon = "", ""
		}
		row := []string{
			s.title,
			strconv.FormatFloat(s.magnitude, 'f', 1, 64),
			s.dateTime,
			lat,
			lon,
			s.location,
			strconv.FormatFloat(s.depth, 'f', 1, 64),
			strconv.Itoa(s.sig),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	log.Printf("wrote %d catalog rows to %s", len(samples), *out)
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
