package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"promptpilot/internal/tastepack"
)

var (
	packDescription string
	packTags        []string
	packMode        string
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Export and import taste packs",
}

var packExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Export the liked preference set as a taste pack (.json or .yaml)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		pack, err := eng.ExportTastePack(args[0], packDescription, packTags)
		if err != nil {
			return err
		}

		var data []byte
		switch strings.ToLower(filepath.Ext(args[1])) {
		case ".yaml", ".yml":
			data, err = pack.EncodeYAML()
		default:
			data, err = pack.EncodeJSON()
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			return fmt.Errorf("failed to write pack: %w", err)
		}
		fmt.Printf("Exported %d dimension values to %s\n", len(pack.Dimensions), args[1])
		return nil
	},
}

var packImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a taste pack (--mode merge|replace)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := tastepack.ParseMode(packMode)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read pack: %w", err)
		}

		var pack *tastepack.TastePack
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".yaml", ".yml":
			pack, err = tastepack.DecodeYAML(data)
		default:
			pack, err = tastepack.DecodeJSON(data)
		}
		if err != nil {
			return err
		}

		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		if err := eng.ImportTastePack(pack, mode); err != nil {
			return err
		}
		fmt.Printf("Imported %q (%d dimension values, %s)\n", pack.Name, len(pack.Dimensions), mode)
		return nil
	},
}

func init() {
	packExportCmd.Flags().StringVar(&packDescription, "description", "", "pack description")
	packExportCmd.Flags().StringSliceVar(&packTags, "tag", nil, "pack tags (repeatable)")
	packImportCmd.Flags().StringVar(&packMode, "mode", string(tastepack.ImportMerge), "import mode: merge or replace")

	packCmd.AddCommand(packExportCmd)
	packCmd.AddCommand(packImportCmd)
}
