package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "peeldump",
		Short: "A raw Portable Executable container inspector",
		Long:  "Attaches to a PE32 buffer and reports its headers, sections, imports, exports, relocations and checksum",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("peeldump 0.1.0")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump [flags] file",
		Short: "Dumps the attached structure of a PE32 file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	dumpCmd.Flags().Bool("dosheader", false, "dump the DOS header")
	dumpCmd.Flags().Bool("ntheader", false, "dump the NT headers")
	dumpCmd.Flags().Bool("sections", false, "dump the section table")
	dumpCmd.Flags().Bool("imports", false, "dump the import directory")
	dumpCmd.Flags().Bool("exports", false, "dump the export directory")
	dumpCmd.Flags().Bool("anomalies", false, "dump shape anomalies")
	dumpCmd.Flags().Bool("all", false, "dump everything")
	dumpCmd.Flags().Bool("permissive", false, "accept a bad DOS magic if the NT headers still validate")

	var checksumCmd = &cobra.Command{
		Use:   "checksum file",
		Short: "Computes the PE header checksum",
		Args:  cobra.ExactArgs(1),
		RunE:  runChecksum,
	}

	var relocateCmd = &cobra.Command{
		Use:   "relocate file old-base new-base",
		Short: "Applies base relocations in place and rewrites the file",
		Args:  cobra.ExactArgs(3),
		RunE:  runRelocate,
	}

	var toImageCmd = &cobra.Command{
		Use:   "to-image file out",
		Short: "Converts a file-aligned PE32 into its image-aligned layout",
		Args:  cobra.ExactArgs(2),
		RunE:  runToImage,
	}

	rootCmd.AddCommand(versionCmd, dumpCmd, checksumCmd, relocateCmd, toImageCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
