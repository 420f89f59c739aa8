package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/kaggleset/pkg/dataset"
	"github.com/TFMV/kaggleset/pkg/manifest"
)

var splitCmd = &cobra.Command{
	Use:   "split [competition]",
	Short: "Split a training file into train and test parts",
	Long: `Split the training file of a competition into a train and a test part.

The test part is a uniform random sample of rows. Its size defaults to 30%
of the rows; --test-size and --train-size accept a fraction below 1 or an
absolute row count. Both parts and a manifest.json are written to --out.

Supported output formats:
- csv
- parquet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		target, _ := cmd.Flags().GetString("target")
		dropNulls, _ := cmd.Flags().GetBool("drop-nulls")
		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		createdBy, _ := cmd.Flags().GetString("created-by")

		// Validate output format
		if format != "csv" && format != "parquet" {
			return fmt.Errorf("unsupported format %q", format)
		}

		// Only explicit sizes are passed on; Split applies the default
		var opts []dataset.SplitOption
		if cmd.Flags().Changed("test-size") {
			v, _ := cmd.Flags().GetFloat64("test-size")
			opts = append(opts, dataset.WithTestSize(v))
		}
		if cmd.Flags().Changed("train-size") {
			v, _ := cmd.Flags().GetFloat64("train-size")
			opts = append(opts, dataset.WithTrainSize(v))
		}

		seed := time.Now().UnixNano()
		if viper.IsSet("seed") {
			seed = viper.GetInt64("seed")
		}

		// Load the training file
		ds, err := dataset.LoadTrain(cmd.Context(), materializer(), name)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}

		if dropNulls {
			dropped := ds.RemoveNones()
			log.Info().Int("dropped", dropped).Int("rows", ds.Len()).Msg("Dropped rows with nulls")
		}

		if target != "" && !ds.SetTarget(target) {
			return fmt.Errorf("target column %q not found", target)
		}

		// Split the dataset
		train, test, err := ds.Split(dataset.NewRandomState(seed), opts...)
		if err != nil {
			return fmt.Errorf("failed to split dataset: %w", err)
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}

		// Write both parts and the manifest
		m := manifest.New(name, train.Schema().Arrow(), createdBy)
		m.Target = target
		m.Seed = seed
		for _, part := range []*dataset.Dataset{train, test} {
			file := part.Name() + "." + format
			if err := writePart(filepath.Join(outDir, file), part, format); err != nil {
				return err
			}
			m.AddPart(part.Name(), file, part.Len(), part.IsTraining())
		}

		data, err := m.Serialize()
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outDir, manifest.FileName), data, 0o644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Split %s: %d train rows, %d test rows (seed %d)\n", name, train.Len(), test.Len(), seed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringP("target", "t", "", "Column to move to the last position")
	splitCmd.Flags().Float64("test-size", dataset.DefaultTestSize, "Test fraction (<1) or row count (>=1)")
	splitCmd.Flags().Float64("train-size", 0, "Train fraction (<1) or row count (>=1)")
	splitCmd.Flags().Int64("seed", 0, "Random seed (default: time based)")
	splitCmd.Flags().Bool("drop-nulls", false, "Drop rows with a null in any column before splitting")
	splitCmd.Flags().StringP("format", "f", "csv", "Output format (csv, parquet)")
	splitCmd.Flags().StringP("out", "o", "out", "Output directory")
	splitCmd.Flags().String("created-by", "kaggleset", "Creator name recorded in the manifest")

	// Bind flags to viper
	if err := viper.BindPFlag("seed", splitCmd.Flags().Lookup("seed")); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind seed flag")
	}
}

func writePart(path string, ds *dataset.Dataset, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	switch format {
	case "parquet":
		err = ds.WriteParquet(f)
	default:
		err = ds.WriteCSV(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	log.Debug().Str("file", path).Int("rows", ds.Len()).Msg("Wrote dataset part")
	return nil
}
