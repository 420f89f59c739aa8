package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/TFMV/kaggleset/pkg/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [competition]",
	Short: "Display the inferred schema of a competition file",
	Long: `Display information about a competition file including:
- Inferred column kinds
- Row count
- Null counts per column`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		fileName, _ := cmd.Flags().GetString("file")
		outputFormat, _ := cmd.Flags().GetString("output")

		ds, err := dataset.Load(cmd.Context(), materializer(), name, fileName)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}

		switch outputFormat {
		case "json":
			return displayInspectJSON(cmd.OutOrStdout(), ds)
		case "table":
			return displayInspectTable(cmd.OutOrStdout(), ds, fileName)
		default:
			return fmt.Errorf("unknown output format %q", outputFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("file", "f", dataset.TrainFile, "File inside the competition directory")
	inspectCmd.Flags().StringP("output", "o", "table", "Output format (table, json)")
}

func displayInspectTable(w io.Writer, ds *dataset.Dataset, fileName string) error {
	fmt.Fprintf(w, "Dataset Information\n")
	fmt.Fprintf(w, "===================\n\n")

	fmt.Fprintf(w, "Dataset: %s\n", ds.Name())
	fmt.Fprintf(w, "File: %s\n", fileName)
	fmt.Fprintf(w, "Rows: %d\n", ds.Len())
	fmt.Fprintf(w, "Training: %v\n", ds.IsTraining())

	fmt.Fprintf(w, "\nSchema Information\n")
	fmt.Fprintf(w, "------------------\n")
	fmt.Fprintf(w, "Fields: %d\n", ds.NumColumns())
	for i, field := range ds.Schema() {
		nulls := ""
		if n := ds.ColumnAt(i).NullCount(); n > 0 {
			nulls = fmt.Sprintf(" (%d nulls)", n)
		}
		fmt.Fprintf(w, "  %d. %s: %s%s\n", i+1, field.Name, field.Kind, nulls)
	}

	return nil
}

func displayInspectJSON(w io.Writer, ds *dataset.Dataset) error {
	type schemaField struct {
		Name  string `json:"name"`
		Kind  string `json:"kind"`
		Nulls int    `json:"nulls"`
	}

	fields := make([]schemaField, 0, ds.NumColumns())
	for i, field := range ds.Schema() {
		fields = append(fields, schemaField{
			Name:  field.Name,
			Kind:  field.Kind.String(),
			Nulls: ds.ColumnAt(i).NullCount(),
		})
	}

	output := map[string]interface{}{
		"name":     ds.Name(),
		"rows":     ds.Len(),
		"training": ds.IsTraining(),
		"schema": map[string]interface{}{
			"fields": fields,
		},
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(jsonData))
	return nil
}
