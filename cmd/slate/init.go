package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onsetlabs/slate/internal/config"
	"github.com/onsetlabs/slate/internal/home"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the slate home directory and a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return fmt.Errorf("creating home directory: %w", err)
		}

		if h.ConfigExists() {
			fmt.Printf("config already exists: %s\n", h.ConfigPath())
			return nil
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}

		fmt.Printf("initialized %s\n", h.Path())
		fmt.Printf("wrote %s\n", h.ConfigPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
