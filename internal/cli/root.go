package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/egresswatch/egresswatch/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	noColor      bool
	serverURL    string
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "egresswatch",
	Short: "EgressWatch CLI - Cloud Network Egress Analysis",
	Long: `EgressWatch CLI provides command-line access to the EgressWatch platform
for analyzing cloud network egress: traffic trends, tiered cost estimates,
anomaly detection, and consolidated recommendations.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip client init for config commands
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		return initClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.egresswatch/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	// Register all subcommands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTrendCmd())
	rootCmd.AddCommand(newCostCmd())
	rootCmd.AddCommand(newAnomalyCmd())
	rootCmd.AddCommand(newRecommendationCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := home + "/.egresswatch"
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("EGRESSWATCH")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")

	_ = viper.ReadInConfig()
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: url,
	})
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
