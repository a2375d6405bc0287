package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/benford-cli/internal/config"
	"github.com/KaramelBytes/benford-cli/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Benford configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "threshold: %g\n", cfg.Threshold)
		fmt.Fprintf(w, "seed: %d\n", cfg.Seed)
		fmt.Fprintf(w, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(w, "output_file: %s\n", cfg.OutputFile)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(w, "max_upload_mb: %d\n", cfg.MaxUploadMB)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], strings.TrimSpace(args[1])
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid threshold: %v (use a number in (0,1))", val)
			}
			cfg.Threshold = f
		case "seed":
			u, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid uint for seed: %w", err)
			}
			cfg.Seed = u
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			cfg.SampleRows = i
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "output_file":
			if val == "" {
				return fmt.Errorf("output_file cannot be empty")
			}
			cfg.OutputFile = val
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = strings.ToLower(val)
		case "listen_addr":
			cfg.ListenAddr = val
		case "max_upload_mb":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_upload_mb: %v", val)
			}
			cfg.MaxUploadMB = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
