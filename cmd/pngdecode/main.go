// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command pngdecode decodes and inspects PNG files. Files may be local,
// on S3, or a URL.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/spf13/cobra"
)

func main() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})

	root := &cobra.Command{
		Use:   "pngdecode",
		Short: "decode and inspect PNG files",
	}
	root.AddCommand(newDecodeCommand())
	root.AddCommand(newInspectCommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("pngdecode: %v", err)
	}
}
