package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/kaggleset/pkg/fetch"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kaggleset",
	Short: "Load, clean and split Kaggle competition datasets",
	Long: `kaggleset downloads Kaggle competition files, infers a typed schema
from their CSV data and splits training sets into train and test parts.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging level
		if viper.GetBool("verbose") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kaggleset.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory holding extracted competitions")
	rootCmd.PersistentFlags().String("cache-dir", "cache", "directory holding downloaded archives")
	rootCmd.PersistentFlags().String("kaggle-command", "kaggle", "kaggle CLI executable")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"verbose":        "verbose",
		"data_dir":       "data-dir",
		"cache_dir":      "cache-dir",
		"kaggle_command": "kaggle-command",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			log.Fatal().Err(err).Str("flag", flag).Msg("Failed to bind flag")
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kaggleset")
	}

	// Environment overrides, e.g. KAGGLESET_DATA_DIR
	viper.SetEnvPrefix("kaggleset")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("config", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

// materializer builds the Kaggle materializer from the loaded configuration.
func materializer() *fetch.Kaggle {
	return &fetch.Kaggle{
		DataDir:  viper.GetString("data_dir"),
		CacheDir: viper.GetString("cache_dir"),
		Command:  viper.GetString("kaggle_command"),
	}
}
