// Command surveyctl is an operator tool for checking voices and the response dataset.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hasandi22/Final-year-research---Data-Collection/config"
	"github.com/hasandi22/Final-year-research---Data-Collection/dataset"
	"github.com/hasandi22/Final-year-research---Data-Collection/models"
	"github.com/hasandi22/Final-year-research---Data-Collection/services"
	"github.com/hasandi22/Final-year-research---Data-Collection/tts"
)

var (
	envFile string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "surveyctl",
	Short:         "Operate the voice interaction survey",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the configured speech provider",
	RunE:  runVoices,
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize text with a named voice and write the audio to a file",
	RunE:  runSynth,
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect the response dataset",
}

var datasetStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Download the dataset and print its size and columns",
	RunE:  runDatasetStats,
}

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Print the columns of a submission record",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, col := range models.RecordColumns() {
			fmt.Fprintln(cmd.OutOrStdout(), col)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "timeout for remote calls")

	synthCmd.Flags().String("voice", models.DefaultEmpatheticVoice, "voice name (exact match)")
	synthCmd.Flags().String("text", models.DefaultEmpatheticScript, "text to speak")
	synthCmd.Flags().String("out", "sample.mp3", "output file")

	datasetCmd.AddCommand(datasetStatsCmd)
	rootCmd.AddCommand(voicesCmd, synthCmd, datasetCmd, columnsCmd)
}

func loadConfig() (*config.Config, error) {
	opts := config.DefaultOptions()
	opts.EnvFiles = []string{envFile}
	return config.LoadConfig(opts)
}

func voiceService() (services.VoiceService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	provider, settings, err := tts.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewVoiceService(provider, settings), nil
}

func runVoices(cmd *cobra.Command, _ []string) error {
	svc, err := voiceService()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	voices, err := svc.ListVoices(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVOICE ID\tGENDER\tACCENT\tDESCRIPTION")
	for _, v := range voices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.VoiceID, v.Gender, v.Accent, v.Description)
	}
	return w.Flush()
}

func runSynth(cmd *cobra.Command, _ []string) error {
	voice, _ := cmd.Flags().GetString("voice")
	text, _ := cmd.Flags().GetString("text")
	out, _ := cmd.Flags().GetString("out")

	svc, err := voiceService()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	audio, err := svc.Synthesize(ctx, text, voice)
	if err != nil {
		return fmt.Errorf("voice generation failed: %w", err)
	}
	if err := os.WriteFile(out, audio.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(audio.Data), out)
	return nil
}

func runDatasetStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := dataset.NewStore(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	data, err := store.Download(ctx, cfg.HFDatasetRepo, cfg.HFDatasetPath)
	if err != nil {
		return err
	}
	table, err := dataset.ParseCSV(data)
	if err != nil {
		return err
	}

	expected := make(map[string]bool)
	for _, col := range models.RecordColumns() {
		expected[col] = true
	}
	var extra []string
	for _, col := range table.Columns {
		if !expected[col] {
			extra = append(extra, col)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: %d rows, %d columns\n", cfg.HFDatasetRepo, cfg.HFDatasetPath, table.Len(), len(table.Columns))
	if len(extra) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "columns not written by this version: %s\n", strings.Join(extra, ", "))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
