package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	peel "github.com/x8esix/peel"

	"github.com/spf13/cobra"
)

func prettyPrint(buf []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, buf, "", "\t"); err != nil {
		log.Println("JSON parse error:", err)
		return string(buf)
	}
	return out.String()
}

func printJSON(label string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal %s: %v", label, err)
		return
	}
	fmt.Println(prettyPrint(b))
}

func attachFile(path string, permissive bool) (*peel.RawPe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	mode := peel.ModeStrict
	if permissive {
		mode = peel.ModePermissive
	}
	return peel.Attach(data, &peel.Options{Mode: mode})
}

func runDump(cmd *cobra.Command, args []string) error {
	permissive, _ := cmd.Flags().GetBool("permissive")
	pe, err := attachFile(args[0], permissive)
	if err != nil {
		return err
	}
	defer pe.Detach()

	all, _ := cmd.Flags().GetBool("all")

	if all || mustBool(cmd, "dosheader") {
		printJSON("dos header", pe.DOSHeader())
	}
	if all || mustBool(cmd, "ntheader") {
		printJSON("nt headers", pe.NtHeaders())
	}
	if all || mustBool(cmd, "sections") {
		printJSON("sections", pe.Sections())
	}
	if all || mustBool(cmd, "imports") {
		imports, err := pe.EnumerateImports()
		if err != nil {
			return fmt.Errorf("enumerating imports: %w", err)
		}
		printJSON("imports", imports)
	}
	if all || mustBool(cmd, "exports") {
		exports, err := pe.EnumerateExports()
		if err != nil {
			return fmt.Errorf("enumerating exports: %w", err)
		}
		printJSON("exports", exports)
	}
	if all || mustBool(cmd, "anomalies") {
		printJSON("anomalies", pe.Diagnose())
	}
	return nil
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func runChecksum(cmd *cobra.Command, args []string) error {
	pe, err := attachFile(args[0], false)
	if err != nil {
		return err
	}
	defer pe.Detach()

	sum, err := pe.Checksum()
	if err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}
	fmt.Printf("computed checksum: 0x%08x (header field: 0x%08x)\n",
		sum, pe.NtHeaders().OptionalHeader.CheckSum)
	return nil
}

func runRelocate(cmd *cobra.Command, args []string) error {
	path := args[0]
	oldBase, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("parsing old-base: %w", err)
	}
	newBase, err := strconv.ParseUint(args[2], 0, 32)
	if err != nil {
		return fmt.Errorf("parsing new-base: %w", err)
	}

	pe, err := attachFile(path, false)
	if err != nil {
		return err
	}
	defer pe.Detach()

	if err := pe.Relocate(uint32(oldBase), uint32(newBase)); err != nil {
		return fmt.Errorf("relocating: %w", err)
	}
	if err := os.WriteFile(path, pe.Buffer(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("relocated %s from 0x%x to 0x%x\n", path, oldBase, newBase)
	return nil
}

func runToImage(cmd *cobra.Command, args []string) error {
	src, err := attachFile(args[0], false)
	if err != nil {
		return err
	}
	defer src.Detach()

	img, err := peel.ToImage(src, &peel.Options{})
	if err != nil {
		return fmt.Errorf("converting to image alignment: %w", err)
	}
	defer img.Free()

	if err := os.WriteFile(args[1], img.Buffer(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args[1], err)
	}
	fmt.Printf("wrote image-aligned copy to %s\n", args[1])
	return nil
}
