// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/cosnicolaou/pngcore"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

type decodeFlags struct {
	output       string
	maxDimension uint32
	checkCRC     bool
	progress     bool
}

func newDecodeCommand() *cobra.Command {
	var fl decodeFlags
	cmd := &cobra.Command{
		Use:   "decode <png-file>",
		Short: "decode a PNG file and write its raw decompressed samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.Context(), args[0], &fl)
		},
	}
	cmd.Flags().StringVar(&fl.output, "output", "", "output file, omit for stdout")
	cmd.Flags().Uint32Var(&fl.maxDimension, "max-dimension", pngcore.DefaultMaxDimension, "maximum accepted width/height")
	cmd.Flags().BoolVar(&fl.checkCRC, "check-crc", pngcore.DefaultCheckCRC, "verify chunk CRC-32s")
	cmd.Flags().BoolVar(&fl.progress, "progress", true, "display a progress bar")
	return cmd
}

func runDecode(ctx context.Context, name string, fl *decodeFlags) error {
	data, err := readInput(ctx, name)
	if err != nil {
		return err
	}

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	var bar *progressbar.ProgressBar
	barWr := os.Stdout
	if fl.progress && (len(fl.output) > 0 || !isTTY) {
		// The bar moves to stderr whenever stdout is not a terminal, so
		// piped decompressed output is never interleaved with it.
		if !isTTY {
			barWr = os.Stderr
		}
		bar = progressbar.NewOptions64(int64(len(data)),
			progressbar.OptionSetBytes64(int64(len(data))),
			progressbar.OptionSetWriter(barWr),
			progressbar.OptionSetPredictTime(true))
		bar.RenderBlank()
	}

	img, err := pngcore.Decode(data,
		pngcore.WithMaxDimension(fl.maxDimension),
		pngcore.WithCRCCheck(fl.checkCRC))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if bar != nil {
		bar.Add(len(data))
		fmt.Fprintln(barWr)
	}

	if len(fl.output) == 0 {
		_, err := os.Stdout.Write(img.Decompressed)
		return err
	}
	return ioutil.WriteFile(fl.output, img.Decompressed, 0o644)
}
