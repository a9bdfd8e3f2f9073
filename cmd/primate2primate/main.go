package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
	"github.com/oliviercoulon/MeCA-internship/pkg/config"
	"github.com/oliviercoulon/MeCA-internship/pkg/gifti"
	"github.com/oliviercoulon/MeCA-internship/pkg/model"
	"github.com/oliviercoulon/MeCA-internship/pkg/registration"
	"github.com/oliviercoulon/MeCA-internship/pkg/visualization"
)

func main() {
	// Parse command line arguments
	primate1 := flag.String("primate1", "", "Target species name (output coordinate frame)")
	primate2 := flag.String("primate2", "", "Source species name (textures to transform)")
	side := flag.String("side", "L", "Hemisphere side (L or R)")
	dataDir := flag.String("data", ".", "Directory containing model, correspondence and texture files")
	outputDir := flag.String("output", "", "Output directory (default: data directory)")
	configPath := flag.String("config", "primate2primate.yaml", "Configuration file path")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: config value or all available)")
	savePlots := flag.Bool("plots", false, "Save warp QC plots for both axis kinds")
	flag.Parse()

	// Validate inputs
	if *primate1 == "" || *primate2 == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *side != string(models.LeftHemisphere) && *side != string(models.RightHemisphere) {
		log.Fatalf("Invalid side %q: must be L or R", *side)
	}
	if *outputDir == "" {
		*outputDir = *dataDir
	}

	// Load configuration, falling back to defaults when the file is absent
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *numCores > 0 {
		cfg.Processing.NumCores = *numCores
	}
	if cfg.Processing.NumCores < 1 {
		cfg.Processing.NumCores = runtime.NumCPU()
	}
	if *savePlots {
		cfg.Output.SavePlots = true
	}

	fmt.Println("================================")
	fmt.Println("PRIMATE-TO-PRIMATE CORTICAL COORDINATE REGISTRATION")
	fmt.Printf("Re-expressing %s coordinate textures in the %s frame (%s hemisphere)\n",
		*primate2, *primate1, *side)
	fmt.Println("================================")

	// Derive the file names from the species names and hemisphere side
	modelPath1 := filepath.Join(*dataDir, "model_"+*side+*primate1+".yaml")
	modelPath2 := filepath.Join(*dataDir, "model_"+*side+*primate2+".yaml")
	corrPath := filepath.Join(*dataDir, *primate1+"_"+*primate2+"_Corr.txt")
	lonInPath := filepath.Join(*dataDir, *primate2+"_"+*side+"white_lon.gii")
	latInPath := filepath.Join(*dataDir, *primate2+"_"+*side+"white_lat.gii")
	lonOutPath := filepath.Join(*outputDir, *primate1+"_"+*side+"white_lon_to"+*primate2+".gii")
	latOutPath := filepath.Join(*outputDir, *primate1+"_"+*side+"white_lat_to"+*primate2+".gii")

	// Step 1: Load the species models and the correspondence table
	fmt.Println("Step 1: Loading species models and correspondence table...")
	model1, err := model.LoadModel(modelPath1)
	if err != nil {
		log.Fatalf("Failed to load %s model: %v", *primate1, err)
	}
	model2, err := model.LoadModel(modelPath2)
	if err != nil {
		log.Fatalf("Failed to load %s model: %v", *primate2, err)
	}
	corr, err := model.LoadCorrespondence(corrPath)
	if err != nil {
		log.Fatalf("Failed to load correspondence table: %v", err)
	}

	// Unconventional latitude bands are legal but worth flagging
	for _, m := range []*models.Model{model1, model2} {
		if m.LatitudeBand != cfg.Processing.LatitudeBand {
			fmt.Printf("Warning: %s latitude band [%g, %g] differs from the conventional [%g, %g]\n",
				m.Species, m.LatitudeBand[0], m.LatitudeBand[1],
				cfg.Processing.LatitudeBand[0], cfg.Processing.LatitudeBand[1])
		}
	}

	// Step 2: Build the per-axis warps
	fmt.Println("Step 2: Building piecewise-affine warps from landmark anchors...")
	var progress registration.ProgressCallback
	if cfg.Output.Verbose {
		progress = func(completed, total int, message string) {
			fmt.Printf("  [%d/%d] %s\n", completed, total, message)
		}
	}
	reg := registration.NewRegistrator(&registration.Params{
		Model1:         model1,
		Model2:         model2,
		Correspondence: corr,
		NumCores:       cfg.Processing.NumCores,
		Progress:       progress,
	})
	if err := reg.Prepare(); err != nil {
		log.Fatalf("Registration failed: %v", err)
	}

	// Step 3: Read the source textures
	fmt.Println("Step 3: Reading coordinate textures...")
	texLon, err := gifti.Read(lonInPath)
	if err != nil {
		log.Fatalf("Failed to read longitude texture: %v", err)
	}
	texLat, err := gifti.Read(latInPath)
	if err != nil {
		log.Fatalf("Failed to read latitude texture: %v", err)
	}

	// Step 4: Rescale both textures into the target frame
	fmt.Printf("Step 4: Rescaling %d vertices on %d cores...\n", len(texLon), cfg.Processing.NumCores)
	startTime := time.Now()
	newLon, newLat, err := reg.TransformTextures(texLon, texLat)
	if err != nil {
		log.Fatalf("Texture transformation failed: %v", err)
	}
	processingTime := time.Since(startTime)

	// Step 5: Persist the transformed textures
	fmt.Println("Step 5: Writing transformed textures...")
	encoding := gifti.Encoding(cfg.Output.TextureEncoding)
	if err := gifti.Write(lonOutPath, newLon, encoding); err != nil {
		log.Fatalf("Failed to write longitude texture: %v", err)
	}
	if err := gifti.Write(latOutPath, newLat, encoding); err != nil {
		log.Fatalf("Failed to write latitude texture: %v", err)
	}

	// Optionally render the warp curves for visual QC
	if cfg.Output.SavePlots {
		fmt.Println("Saving warp QC plots...")
		plotter := visualization.NewPlotter(640, 480)
		for _, kind := range []models.AxisKind{models.Longitude, models.Latitude} {
			transform, boundaries, ok := reg.Transform(kind)
			if !ok {
				continue
			}
			plotPath := filepath.Join(*outputDir, cfg.Output.PlotDir,
				fmt.Sprintf("%s_%s_%s_warp.png", *primate1, *primate2, kind))
			if err := plotter.SaveTransformPlot(plotPath, transform, boundaries, nil); err != nil {
				log.Printf("Warning: failed to save %s warp plot: %v", kind, err)
			}
		}
	}

	// Report the run
	metrics := reg.GetMetrics()
	fmt.Printf("\nRegistration completed in %.2f seconds\n", processingTime.Seconds())
	fmt.Printf("Output textures:\n  %s\n  %s\n\n", lonOutPath, latOutPath)

	fmt.Printf("Registration metrics:\n")
	fmt.Printf("=====================\n")
	printAxisMetrics("Longitude", metrics.Longitude, metrics.LongitudeTexture)
	printAxisMetrics("Latitude", metrics.Latitude, metrics.LatitudeTexture)
}

func printAxisMetrics(name string, axis registration.AxisMetrics, tex registration.TextureStats) {
	fmt.Printf("%s: %d anchors, anchor RMSE %.3g (max %.3g)\n",
		name, axis.AnchorCount, axis.AnchorRMSE, axis.MaxResidual)
	fmt.Printf("  Global affine fit: scale %.4f, offset %.4f, residual %.3g\n",
		axis.GlobalScale, axis.GlobalOffset, axis.FitResidual)
	fmt.Printf("  Output texture: mean %.2f, stddev %.2f, range [%.2f, %.2f]\n",
		tex.Mean, tex.StdDev, tex.Min, tex.Max)
}
