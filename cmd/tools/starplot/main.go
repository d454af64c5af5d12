// Command starplot renders double-star measurement charts and position
// predictions from CSV files, without going through the HTTP service.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/starplotd/starplot/internal/astro"
	"github.com/starplotd/starplot/internal/chart"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/predict"
)

var (
	historicalPath string
	catalogPath    string
	groundPath     string
	title          string
	margin         float64
	outputPath     string
	epoch          float64
	withPrediction bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "starplot",
		Short: "Render double-star measurement charts",
		Long: "starplot renders a square scatter chart of double-star relative\n" +
			"positions from CSV measurement files, and can extrapolate the\n" +
			"historical track to a target epoch.",
		SilenceUsage: true,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart PNG from CSV measurement files",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&historicalPath, "historical", "", "CSV file with x,y,date columns (required)")
	renderCmd.Flags().StringVar(&catalogPath, "catalog", "", "CSV file with x,y columns")
	renderCmd.Flags().StringVar(&groundPath, "ground", "", "CSV file with x,y columns, averaged to one point")
	renderCmd.Flags().StringVar(&title, "title", "Measurements", "chart title")
	renderCmd.Flags().Float64Var(&margin, "margin", astro.DefaultMargin, "margin fraction around the data bounds")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "chart.png", "output PNG path")
	renderCmd.Flags().Float64Var(&epoch, "epoch", 0, "epoch for the predicted point (fractional year)")
	renderCmd.Flags().BoolVar(&withPrediction, "predict", false, "fit the historical track and plot the predicted point")
	_ = renderCmd.MarkFlagRequired("historical")

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Extrapolate the historical track to an epoch",
		RunE:  runPredict,
	}
	predictCmd.Flags().StringVar(&historicalPath, "historical", "", "CSV file with x,y,date columns (required)")
	predictCmd.Flags().Float64Var(&epoch, "epoch", 0, "target epoch (fractional year, required)")
	_ = predictCmd.MarkFlagRequired("historical")
	_ = predictCmd.MarkFlagRequired("epoch")

	rootCmd.AddCommand(renderCmd, predictCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	in := astro.Input{}

	var err error
	if in.HistX, in.HistY, in.HistDates, err = readDatedCSV(historicalPath); err != nil {
		return fmt.Errorf("historical: %w", err)
	}
	if catalogPath != "" {
		if in.CatalogX, in.CatalogY, err = readXYCSV(catalogPath); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	if groundPath != "" {
		if in.GroundX, in.GroundY, err = readXYCSV(groundPath); err != nil {
			return fmt.Errorf("ground: %w", err)
		}
	}

	if withPrediction {
		if epoch == 0 {
			return fmt.Errorf("--predict requires --epoch")
		}
		hist := astro.DatedSeries{
			Series: astro.Series{X: in.HistX, Y: in.HistY},
			Dates:  in.HistDates,
		}
		p, err := predict.Linear(hist, epoch)
		if err != nil {
			return err
		}
		in.Prediction = &p.Point
	}

	set, err := astro.NewMeasurementSet(in)
	if err != nil {
		return err
	}

	opts := chart.DefaultOptions()
	opts.Title = title
	opts.Margin = margin

	logger := logging.NewDevelopment()
	png, err := chart.NewRenderer(logger).Render(set, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}

	fmt.Printf("wrote %s (%d bytes, %d points)\n", outputPath, len(png), len(set.PlotPoints()))
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	x, y, dates, err := readDatedCSV(historicalPath)
	if err != nil {
		return fmt.Errorf("historical: %w", err)
	}

	hist := astro.DatedSeries{
		Series: astro.Series{X: x, Y: y},
		Dates:  dates,
	}
	p, err := predict.Linear(hist, epoch)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		*predict.Prediction
		Date string `json:"date"`
	}{p, astro.YearToTime(epoch).Format("2006-01-02")}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// readXYCSV reads a two-column x,y CSV file. A non-numeric first row is
// treated as a header and skipped.
func readXYCSV(path string) (x, y []float64, err error) {
	rows, err := readCSV(path, 2)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		x = append(x, row[0])
		y = append(y, row[1])
	}
	return x, y, nil
}

// readDatedCSV reads a three-column x,y,date CSV file.
func readDatedCSV(path string) (x, y, dates []float64, err error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, row := range rows {
		x = append(x, row[0])
		y = append(y, row[1])
		dates = append(dates, row[2])
	}
	return x, y, dates, nil
}

func readCSV(path string, columns int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var rows [][]float64
	for i, record := range records {
		if len(record) < columns {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, columns, len(record))
		}

		row := make([]float64, columns)
		ok := true
		for j := 0; j < columns; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			row[j] = v
		}
		if !ok {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: non-numeric value", i+1)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	return rows, nil
}
