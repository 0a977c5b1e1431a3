package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-radial-chart/internal/chart"
)

func loadOne(name string) error {
	src, err := rt.source(name)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*rt.cfg.HTTPTimeout)
	defer cancel()
	_, err = rt.service.Load(ctx, src)
	return err
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a dataset's chart to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			out, _ := cmd.Flags().GetString("out")

			var pointer *chart.Point
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
				x, _ := cmd.Flags().GetFloat64("x")
				y, _ := cmd.Flags().GetFloat64("y")
				pointer = &chart.Point{X: x, Y: y}
			}

			if err := loadOne(name); err != nil {
				return err
			}
			img, err := rt.service.Image(name, pointer)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, img.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			rt.logger.Infow("chart written", "dataset", name, "file", out, "bytes", len(img.Data), "etag", img.ETag)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "chart.png", "Output PNG file")
	cmd.Flags().Float64("x", 0, "Pointer x relative to the chart centre; draws the hover overlay")
	cmd.Flags().Float64("y", 0, "Pointer y relative to the chart centre; draws the hover overlay")
	return cmd
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [dataset] [x] [y]",
		Short: "Resolve a pointer position to a day's record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			output, _ := cmd.Flags().GetString("output")

			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}

			if err := loadOne(name); err != nil {
				return err
			}
			res, err := rt.service.Inspect(name, x, y)
			if err != nil {
				return err
			}

			if output == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResolution(res)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	return cmd
}

func printResolution(res chart.Resolution) {
	fmt.Printf("angle:  %.4f rad\n", res.Angle)
	fmt.Printf("date:   %s\n", res.DateKey)
	if res.Tooltip == nil {
		fmt.Println("record: none")
		return
	}
	t := res.Tooltip
	fmt.Printf("%s\n", t.DateLabel)
	fmt.Printf("  temperature:   %s - %s\n", t.TempMin, t.TempMax)
	fmt.Printf("  uv index:      %s\n", t.UV)
	fmt.Printf("  cloud cover:   %s\n", t.Cloud)
	if t.PrecipType != "" {
		fmt.Printf("  precipitation: %s %s\n", t.PrecipPct, t.PrecipType)
	} else {
		fmt.Printf("  precipitation: %s\n", t.PrecipPct)
	}
}

func datasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the configured datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			load, _ := cmd.Flags().GetBool("load")
			if load {
				ctx, cancel := context.WithTimeout(context.Background(), 2*rt.cfg.HTTPTimeout)
				defer cancel()
				if err := rt.service.ReloadAll(ctx); err != nil {
					rt.logger.Warnw("some datasets failed to load", "error", err)
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLOCATION\tLOADED\tRECORDS\tFIRST\tLAST")
			for _, s := range rt.service.Charts() {
				fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%s\t%s\n", s.Name, s.Location, s.Loaded, s.Records, s.First, s.Last)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Bool("load", false, "Load every dataset and show record counts")
	return cmd
}
