package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "stocktrends",
		Short:         "Stock price and relative performance dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE:  runServe, // cmd_serve.go
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Evaluate one selection and write the chart pages to a directory",
		RunE:  runRender, // cmd_render.go
	}
)

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to the YAML config file")

	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	serveCmd.Flags().Bool("prewarm", false, "evaluate the default selection once at startup")

	addRenderFlags(renderCmd)

	rootCmd.AddCommand(serveCmd, renderCmd)
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("ticker", "", "primary stock (default: first stock in the universe)")
	cmd.Flags().StringSlice("compare", nil, "up to three comparison instruments")
	cmd.Flags().String("period", "", "time window: 1mo, 3mo, 6mo, 1y, 2y, 5y or max")
	cmd.Flags().String("out", "charts", "output directory")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		newLogger("info", "text").Fatalf("stocktrends: %v", err)
	}
}
