package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/fastblur/cmd"
	"github.com/rm-hull/fastblur/fastblur"
	"github.com/rm-hull/fastblur/internal"
	"github.com/spf13/cobra"
)

func main() {
	var output string
	var radius int
	var gaussian bool
	var double bool
	var level int
	var debug bool
	var inDir, outDir string
	var overwrite bool
	var every time.Duration

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	blurOptions := func() fastblur.Options {
		opts := fastblur.Options{
			Mode:             fastblur.FlagMode(gaussian),
			Intensity:        fastblur.Single,
			CompressionLevel: level,
		}
		if double {
			opts.Intensity = fastblur.Double
		}
		return opts
	}

	batchOptions := func() internal.BatchOptions {
		return internal.BatchOptions{
			InDir:     inDir,
			OutDir:    outDir,
			Workers:   cfg.Workers,
			Radius:    radius,
			Blur:      blurOptions(),
			Overwrite: overwrite,
		}
	}

	rootCmd := &cobra.Command{
		Use:          "fastblur",
		Long:         `Box and Gaussian blur for PNG images`,
		SilenceUsage: true,
	}

	addBlurFlags := func(c *cobra.Command) {
		c.Flags().IntVar(&radius, "radius", 5, "Blur radius in pixels (sign is ignored, 0 means 1)")
		c.Flags().BoolVar(&gaussian, "gaussian", false, "Use a Gaussian kernel instead of a box")
		c.Flags().BoolVar(&double, "double", false, "Run the blur twice for a stronger effect")
		c.Flags().IntVar(&level, "level", cfg.CompressionLevel, "zlib compression level for the output (0 for default)")
	}

	blurCmd := &cobra.Command{
		Use:   "blur <input.png> [--out <path>|-] [--radius <n>] [--gaussian] [--double]",
		Short: "Blur a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Blur(args[0], output, radius, blurOptions())
		},
	}
	addBlurFlags(blurCmd)
	blurCmd.Flags().StringVar(&output, "out", "", "Output path, or - for stdout (default <input>-blur.png)")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(cfg, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Port to run HTTP server on")
	apiServerCmd.Flags().Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Largest accepted request body in bytes")
	apiServerCmd.Flags().IntVar(&cfg.CompressionLevel, "level", cfg.CompressionLevel, "zlib compression level for responses (0 for default)")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	addDirFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&inDir, "in", "", "Directory of PNG files to blur")
		c.Flags().StringVar(&outDir, "out", "", "Directory to write blurred files to")
		c.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of files to blur concurrently")
		c.Flags().BoolVar(&overwrite, "overwrite", false, "Re-blur files that already exist in the output directory")
		_ = c.MarkFlagRequired("in")
		_ = c.MarkFlagRequired("out")
	}

	batchCmd := &cobra.Command{
		Use:   "batch --in <dir> --out <dir> [--workers <n>]",
		Short: "Blur every PNG in a directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Batch(batchOptions())
		},
	}
	addBlurFlags(batchCmd)
	addDirFlags(batchCmd)

	watchCmd := &cobra.Command{
		Use:   "watch --in <dir> --out <dir> [--every <duration>]",
		Short: "Blur new PNGs in a directory on a schedule",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Watch(batchOptions(), every)
		},
	}
	addBlurFlags(watchCmd)
	addDirFlags(watchCmd)
	watchCmd.Flags().DurationVar(&every, "every", time.Minute, "How often to look for new files")

	remoteCmd := &cobra.Command{
		Use:   "remote <input.png> [--server <url>] [--out <path>|-]",
		Short: "Blur a PNG file using a fastblur API server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts := blurOptions()
			params := internal.BlurParams{Radius: radius, Mode: opts.Mode, Intensity: opts.Intensity}
			return cmd.Remote(cfg.ServerURL, args[0], output, params)
		},
	}
	addBlurFlags(remoteCmd)
	remoteCmd.Flags().StringVar(&output, "out", "", "Output path, or - for stdout (default <input>-blur.png)")
	remoteCmd.Flags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Base URL of the API server")

	rootCmd.AddCommand(blurCmd, apiServerCmd, batchCmd, watchCmd, remoteCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
