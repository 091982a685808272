package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/ee2kicad/internal/metrics"
	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda"
	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda/api"
	"github.com/OpenTraceLab/ee2kicad/pkg/kicad/library"
)

var (
	payloadFile      string
	decodeSymbol     bool
	decodeFootprint  bool
	decode3D         bool
	downloadModel    bool
	jsonOutput       bool
	symbolLibrary    string
	footprintLibrary string
)

var decodeCmd = &cobra.Command{
	Use:   "decode [lcsc-id...]",
	Short: "Decode components into symbol, footprint and 3-D data",
	Long: `Decode one or more components. IDs are fetched from the EasyEDA API; a
saved API response can be decoded with --file. Without --symbol, --footprint
or --3d all three are decoded.

Examples:
  ee2kicad decode C2040
  ee2kicad decode --symbol --library ~/kicad/easyeda.kicad_sym C2040
  ee2kicad decode --3d --download C2040
  ee2kicad decode --file C2040.json --json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && payloadFile == "" {
			return errors.New("requires at least one LCSC id or --file")
		}
		return nil
	},
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&payloadFile, "file", "f", "",
		"decode a saved API response instead of fetching")
	decodeCmd.Flags().BoolVar(&decodeSymbol, "symbol", false,
		"decode the schematic symbol")
	decodeCmd.Flags().BoolVar(&decodeFootprint, "footprint", false,
		"decode the PCB footprint")
	decodeCmd.Flags().BoolVar(&decode3D, "3d", false,
		"resolve the 3-D model placement")
	decodeCmd.Flags().BoolVar(&downloadModel, "download", false,
		"download the 3-D mesh and STEP payloads")
	decodeCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"print the decoded model as JSON")
	decodeCmd.Flags().StringVar(&symbolLibrary, "library", "",
		"KiCad symbol library (.kicad_sym) to check for existing parts")
	decodeCmd.Flags().StringVar(&footprintLibrary, "footprint-lib", "",
		"KiCad footprint directory (.pretty) to check for existing footprints")
}

// decodeResult is what gets printed for one component.
type decodeResult struct {
	ID          string              `json:"id"`
	Symbol      *easyeda.Symbol     `json:"symbol,omitempty"`
	Footprint   *easyeda.Footprint  `json:"footprint,omitempty"`
	Model3D     *easyeda.Model3D    `json:"model_3d,omitempty"`
	Diagnostics easyeda.Diagnostics `json:"diagnostics"`
	Library     *libraryStatus      `json:"library,omitempty"`
}

type libraryStatus struct {
	Symbol    string `json:"symbol,omitempty"` // matching library symbol, empty when absent
	Footprint bool   `json:"footprint"`
}

// componentSource yields the payload of one component.
type componentSource struct {
	id   string
	load func(ctx context.Context) (*easyeda.CADData, error)
}

func runDecode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	// nothing selected means everything
	if !decodeSymbol && !decodeFootprint && !decode3D {
		decodeSymbol, decodeFootprint, decode3D = true, true, true
	}

	var index *library.Index
	if symbolLibrary != "" || footprintLibrary != "" {
		var err error
		index, err = library.Load(symbolLibrary, footprintLibrary)
		if err != nil {
			return fmt.Errorf("failed to load library: %w", err)
		}
		logger.Debug("library loaded",
			zap.Int("symbols", len(index.Symbols())),
			zap.Int("footprints", len(index.Footprints())))
	}

	opts := []easyeda.Option{easyeda.WithLogger(logger)}
	var client *api.Client
	if len(args) > 0 || downloadModel {
		var err error
		client, err = api.NewClient(cfg.ClientConfig(), api.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to create API client: %w", err)
		}
		defer client.Close()
		opts = append(opts, easyeda.WithModelSource(client))
	}
	decoder := easyeda.NewDecoder(opts...)

	sources := make([]componentSource, 0, len(args)+1)
	if payloadFile != "" {
		sources = append(sources, fileSource(payloadFile))
	}
	for _, id := range args {
		id := strings.TrimSpace(id)
		sources = append(sources, componentSource{
			id: id,
			load: func(ctx context.Context) (*easyeda.CADData, error) {
				return client.Component(ctx, id)
			},
		})
	}

	var bar *progressbar.ProgressBar
	if len(sources) > 1 && !jsonOutput {
		bar = progressbar.NewOptions(len(sources),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Decoding components"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	rec := metrics.NewRecorder()
	var results []*decodeResult
	failed := 0

	for _, src := range sources {
		res, err := decodeOne(ctx, decoder, src, index, rec)
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			failed++
			logger.Error("component failed", zap.String("id", src.id), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", src.id, err)
			continue
		}
		results = append(results, res)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if jsonOutput {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, res := range results {
			printSummary(out, res)
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d component(s) could not be decoded", failed, len(sources))
	}
	return nil
}

func fileSource(path string) componentSource {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return componentSource{
		id: id,
		load: func(context.Context) (*easyeda.CADData, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read payload: %w", err)
			}
			return easyeda.ParseAPIResponse(data)
		},
	}
}

func decodeOne(ctx context.Context, d *easyeda.Decoder, src componentSource, index *library.Index, rec *metrics.Recorder) (*decodeResult, error) {
	cad, err := src.load(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) || errors.Is(err, easyeda.ErrNoResult) {
			rec.ObserveComponent(metrics.ResultNotFound)
		} else {
			rec.ObserveComponent(metrics.ResultFailed)
		}
		return nil, err
	}

	res := &decodeResult{ID: src.id}

	if decodeSymbol {
		sym, diags, err := d.DecodeSymbol(cad)
		if err != nil {
			rec.ObserveComponent(metrics.ResultFailed)
			return nil, err
		}
		res.Symbol = sym
		res.Diagnostics = append(res.Diagnostics, diags...)
		rec.ObserveSymbol(sym)
	}

	if decodeFootprint {
		fp, diags, err := d.DecodeFootprint(cad)
		if err != nil {
			rec.ObserveComponent(metrics.ResultFailed)
			return nil, err
		}
		res.Footprint = fp
		res.Diagnostics = append(res.Diagnostics, diags...)
		rec.ObserveFootprint(fp)
		if decode3D {
			res.Model3D = fp.Model3D
		}
	} else if decode3D && cad.PackageDetail != nil && cad.PackageDetail.DataStr != nil {
		m, diags := d.Resolve3DModel(ctx, cad.PackageDetail.DataStr.Shape, false)
		res.Model3D = m
		res.Diagnostics = append(res.Diagnostics, diags...)
	}

	if downloadModel && res.Model3D != nil {
		res.Diagnostics = append(res.Diagnostics, d.FetchModel(ctx, res.Model3D)...)
	}

	if index != nil {
		res.Library = lookupLibrary(index, res)
	}

	rec.ObserveDiagnostics(res.Diagnostics)
	rec.ObserveComponent(metrics.ResultDecoded)
	return res, nil
}

func lookupLibrary(index *library.Index, res *decodeResult) *libraryStatus {
	status := &libraryStatus{}
	if res.Symbol != nil {
		if name, ok := index.SymbolForLCSC(res.Symbol.Info.LCSCID); ok {
			status.Symbol = name
		} else if index.HasSymbol(res.Symbol.Info.Name) {
			status.Symbol = res.Symbol.Info.Name
		}
	}
	if res.Footprint != nil {
		status.Footprint = index.HasFootprint(res.Footprint.Info.Name)
	}
	return status
}
