package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ordercore",
	Short: "Order composition and checkout eligibility core for the food-ordering platform",
	Long:  `ordercore owns the active cart, evaluates restaurant opening hours including per-date overrides, and gates checkout on cart totals, open state and the restaurant's minimum-order threshold.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ordercore.yaml)")

	rootCmd.PersistentFlags().String("timezone", "Europe/London", "Operator civil timezone for schedule evaluation")
	rootCmd.PersistentFlags().String("storage-path", ".ordercore", "Directory for client-local cart snapshots")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Enable Kafka output for session audit events")
	rootCmd.PersistentFlags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.PersistentFlags().String("output-format", "console", "Audit sink format: console, json or parquet")
	rootCmd.PersistentFlags().String("output-path", "", "Base path for file audit sinks")
	rootCmd.PersistentFlags().String("output-folder", "audit", "Folder under the output path for audit files")

	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	viper.BindPFlag("storage_path", rootCmd.PersistentFlags().Lookup("storage-path"))
	viper.BindPFlag("kafka_enabled", rootCmd.PersistentFlags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", rootCmd.PersistentFlags().Lookup("kafka-broker-list"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output-format"))
	viper.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output-path"))
	viper.BindPFlag("output_folder", rootCmd.PersistentFlags().Lookup("output-folder"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ordercore")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
