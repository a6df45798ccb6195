// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "time"

type options struct {
	timeout     time.Duration
	adapterName string
}

func defaultOptions() options {
	return options{timeout: DefaultTimeout}
}

// Option configures a Backend.
type Option func(*options)

// WithTimeout bounds how long each submission may take on the GPU.
// Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithAdapter makes Open pick the first adapter whose name contains name.
// Without it Open prefers a discrete or integrated GPU. New and
// FromProvider ignore it.
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapterName = name
	}
}
