// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/cosnicolaou/pngcore/internal/png"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var checkCRC bool
	cmd := &cobra.Command{
		Use:   "inspect <png-file>...",
		Short: "dump the chunk sequence of one or more PNG files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := inspectFile(cmd.Context(), name, checkCRC); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkCRC, "check-crc", true, "report whether each chunk's CRC-32 is valid")
	return cmd
}

func inspectFile(ctx context.Context, name string, checkCRC bool) error {
	data, err := readInput(ctx, name)
	if err != nil {
		return err
	}
	infos, err := png.Walk(data, checkCRC)
	fmt.Printf("=== %s ===\n", name)
	for _, c := range infos {
		fmt.Printf("%-4s  length=%-10d crc-ok=%v\n", c.Type, c.Length, c.CRCValid)
		if c.IHDR != nil {
			fmt.Printf("      width=%d height=%d bit-depth=%d color-type=%d interlace=%d\n",
				c.IHDR.Width, c.IHDR.Height, c.IHDR.BitDepth, c.IHDR.ColorType, c.IHDR.InterlaceMethod)
		}
	}
	if err != nil {
		return err
	}
	return nil
}
