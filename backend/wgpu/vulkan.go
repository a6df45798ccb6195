// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

// Import Vulkan backend so it registers via init() for Open.
import _ "github.com/gogpu/wgpu/hal/vulkan"
