package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overlayfx"
)

// DeviceHandle is the integration point between the compositor and the
// host application's GPU framework. The host owns the device and the
// swap chain; the compositor receives both and never creates its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, so any host
// built on the gpucontext ecosystem (such as a gogpu.App) plugs in
// directly.
type DeviceHandle = gpucontext.DeviceProvider

// ErrNoHALAccess is returned when a DeviceHandle does not expose the
// underlying wgpu/hal device and queue.
var ErrNoHALAccess = errors.New("gpu: device provider does not expose HAL types")

// halProvider is the optional interface a DeviceHandle implements to
// share its raw hal.Device and hal.Queue. gogpu context providers
// implement it.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halFromProvider extracts the hal device and queue from a provider.
func halFromProvider(p DeviceHandle) (hal.Device, hal.Queue, error) {
	hp, ok := p.(halProvider)
	if !ok {
		return nil, nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	return device, queue, nil
}

// NewFromProvider creates a Renderer on the host's shared GPU device.
// The provider must expose HalDevice() any and HalQueue() any returning
// wgpu/hal types. The renderer does not own the device and never
// destroys it.
func NewFromProvider(p DeviceHandle) (*Renderer, error) {
	if p == nil {
		return nil, errors.New("gpu: nil device provider")
	}
	device, queue, err := halFromProvider(p)
	if err != nil {
		return nil, err
	}
	overlayfx.Logger().Debug("renderer attached to host device")
	return NewRenderer(device, queue)
}

// RecreateFromProvider rebuilds a lost renderer on the host's recovered
// device. See Renderer.Recreate for the handle-dropping contract.
func (r *Renderer) RecreateFromProvider(p DeviceHandle) error {
	if p == nil {
		return errors.New("gpu: nil device provider")
	}
	device, queue, err := halFromProvider(p)
	if err != nil {
		return err
	}
	return r.Recreate(device, queue)
}
