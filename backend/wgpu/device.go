// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by device providers that expose the HAL
// device and queue behind their gpucontext interfaces.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Open creates a standalone Vulkan device and returns a Backend that owns
// it. Close destroys the device and its instance.
func Open(opts ...Option) (*Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", ErrNoGPU)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := selectAdapter(adapters, o.adapterName)
	if selected == nil {
		instance.Destroy()
		if o.adapterName != "" {
			return nil, fmt.Errorf("%w: no adapter matching %q", ErrNoGPU, o.adapterName)
		}
		return nil, fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	b, err := New(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	b.instance = instance
	b.owned = true
	logger.Load().Info("wgpu: device opened", "adapter", selected.Info.Name)
	return b, nil
}

// selectAdapter returns the first adapter whose name contains name, or with
// an empty name the first discrete or integrated GPU, falling back to the
// first adapter.
func selectAdapter(adapters []hal.ExposedAdapter, name string) *hal.ExposedAdapter {
	if len(adapters) == 0 {
		return nil
	}
	if name != "" {
		for i := range adapters {
			if strings.Contains(adapters[i].Info.Name, name) {
				return &adapters[i]
			}
		}
		return nil
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// FromProvider returns a Backend drawing on the device of a host
// application, such as a gogpu window. The provider keeps ownership of the
// device.
//
// The provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Backend, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNotHALProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNotHALProvider, hp.HalQueue())
	}
	if f := provider.SurfaceFormat(); f != ColorFormat {
		logger.Load().Debug("wgpu: surface format differs from capture format",
			"surface", f, "capture", ColorFormat)
	}
	return New(device, queue, opts...)
}
