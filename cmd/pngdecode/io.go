// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/grailbio/base/file"
)

// readInput loads name's full contents into memory: Decode and Walk
// both need a contiguous buffer, not a stream. name may be a local
// path, an s3:// URI (grailbio/base's s3file implementation, registered
// in main), or an http(s):// URL.
//
// Remote reads (s3, http) are wrapped in a short exponential backoff:
// the whole body is read up front, so a transient network blip partway
// through would otherwise fail the entire invocation.
func readInput(ctx context.Context, name string) ([]byte, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return readRemote(ctx, name)
	}
	if strings.HasPrefix(name, "s3://") {
		return readRemote(ctx, name)
	}
	f, err := file.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx)
	return ioutil.ReadAll(f.Reader(ctx))
}

func readRemote(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	op := func() error {
		body, err := fetch(ctx, name)
		if err != nil {
			return err
		}
		data = body
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return data, nil
}

func fetch(ctx context.Context, name string) ([]byte, error) {
	if strings.HasPrefix(name, "s3://") {
		f, err := file.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		defer f.Close(ctx)
		return ioutil.ReadAll(f.Reader(ctx))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(&httpStatusError{name, resp.StatusCode})
	}
	return ioutil.ReadAll(resp.Body)
}

type httpStatusError struct {
	url    string
	status int
}

func (e *httpStatusError) Error() string {
	return "pngdecode: " + e.url + ": unexpected HTTP status"
}
