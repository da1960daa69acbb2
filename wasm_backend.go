package holomem

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ErrBackendExports is returned when a loaded module is missing one of the
// functions the kernel ABI requires.
var ErrBackendExports = errors.New("holomem: wasm module missing required export")

// WASMBackend runs the three compute kernels inside a WebAssembly module.
// It exists for deployments that ship a SIMD-optimized kernel build; the
// module is compiled once at load time and reused for every call.
//
// Required exports:
//
//	alloc(size: u32) -> u32            bump allocator for transfer buffers
//	project(cells: u32, grid: u32, comps: u32, count: u32)
//	damp(cells: u32, grid: u32, lambda: f64, dt: f64, gain: f64)
//	correlate(a: u32, b: u32, len: u32) -> f64
//
// Complex cells cross the boundary as interleaved (re, im) f64 pairs; wave
// components as (re, im, kx, ky) f64 quads.
type WASMBackend struct {
	ctx      context.Context
	runtime  wazero.Runtime
	module   api.Module
	alloc    api.Function
	project  api.Function
	damp     api.Function
	correlat api.Function
}

// LoadWASMBackend compiles and instantiates a kernel module from raw wasm
// bytes.
func LoadWASMBackend(ctx context.Context, wasmBytes []byte) (*WASMBackend, error) {
	rt := wazero.NewRuntime(ctx)

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("holomem: compile wasm backend: %w", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("holomem-kernels"))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("holomem: instantiate wasm backend: %w", err)
	}

	b := &WASMBackend{
		ctx:      ctx,
		runtime:  rt,
		module:   mod,
		alloc:    mod.ExportedFunction("alloc"),
		project:  mod.ExportedFunction("project"),
		damp:     mod.ExportedFunction("damp"),
		correlat: mod.ExportedFunction("correlate"),
	}
	for name, fn := range map[string]api.Function{
		"alloc": b.alloc, "project": b.project, "damp": b.damp, "correlate": b.correlat,
	} {
		if fn == nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("%w: %s", ErrBackendExports, name)
		}
	}
	return b, nil
}

// LoadWASMBackendFile loads a kernel module from disk.
func LoadWASMBackendFile(ctx context.Context, path string) (*WASMBackend, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("holomem: read wasm backend: %w", err)
	}
	return LoadWASMBackend(ctx, wasmBytes)
}

// Close releases the wasm runtime.
func (b *WASMBackend) Close() error {
	return b.runtime.Close(b.ctx)
}

// Name implements ComputeBackend.
func (b *WASMBackend) Name() string { return "wasm" }

// Project implements ComputeBackend.
func (b *WASMBackend) Project(cells []complex128, gridSize int, comps []WaveComponent) error {
	cellPtr, err := b.writeCells(cells)
	if err != nil {
		return err
	}
	compPtr, err := b.allocBytes(uint32(len(comps) * 4 * 8))
	if err != nil {
		return err
	}
	mem := b.module.Memory()
	for i, c := range comps {
		off := compPtr + uint32(i*4*8)
		ok := mem.WriteFloat64Le(off, real(c.Amp)) &&
			mem.WriteFloat64Le(off+8, imag(c.Amp)) &&
			mem.WriteFloat64Le(off+16, c.Kx) &&
			mem.WriteFloat64Le(off+24, c.Ky)
		if !ok {
			return errors.New("holomem: wasm memory write out of range")
		}
	}

	_, err = b.project.Call(b.ctx,
		uint64(cellPtr), uint64(gridSize), uint64(compPtr), uint64(len(comps)))
	if err != nil {
		return fmt.Errorf("holomem: wasm project: %w", err)
	}
	return b.readCells(cellPtr, cells)
}

// Damp implements ComputeBackend.
func (b *WASMBackend) Damp(cells []complex128, gridSize int, lambda, dt, gain float64) error {
	cellPtr, err := b.writeCells(cells)
	if err != nil {
		return err
	}
	_, err = b.damp.Call(b.ctx,
		uint64(cellPtr), uint64(gridSize),
		api.EncodeF64(lambda), api.EncodeF64(dt), api.EncodeF64(gain))
	if err != nil {
		return fmt.Errorf("holomem: wasm damp: %w", err)
	}
	return b.readCells(cellPtr, cells)
}

// Correlate implements ComputeBackend.
func (b *WASMBackend) Correlate(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: intensity lengths %d and %d", ErrGridSizeMismatch, len(x), len(y))
	}
	xPtr, err := b.writeFloats(x)
	if err != nil {
		return 0, err
	}
	yPtr, err := b.writeFloats(y)
	if err != nil {
		return 0, err
	}
	results, err := b.correlat.Call(b.ctx, uint64(xPtr), uint64(yPtr), uint64(len(x)))
	if err != nil {
		return 0, fmt.Errorf("holomem: wasm correlate: %w", err)
	}
	if len(results) == 0 {
		return 0, errors.New("holomem: wasm correlate returned no value")
	}
	return api.DecodeF64(results[0]), nil
}

func (b *WASMBackend) allocBytes(size uint32) (uint32, error) {
	results, err := b.alloc.Call(b.ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("holomem: wasm alloc: %w", err)
	}
	if len(results) == 0 {
		return 0, errors.New("holomem: wasm alloc returned no pointer")
	}
	return uint32(results[0]), nil
}

func (b *WASMBackend) writeCells(cells []complex128) (uint32, error) {
	ptr, err := b.allocBytes(uint32(len(cells) * 2 * 8))
	if err != nil {
		return 0, err
	}
	mem := b.module.Memory()
	for i, c := range cells {
		off := ptr + uint32(i*2*8)
		if !mem.WriteFloat64Le(off, real(c)) || !mem.WriteFloat64Le(off+8, imag(c)) {
			return 0, errors.New("holomem: wasm memory write out of range")
		}
	}
	return ptr, nil
}

func (b *WASMBackend) readCells(ptr uint32, cells []complex128) error {
	mem := b.module.Memory()
	for i := range cells {
		off := ptr + uint32(i*2*8)
		re, ok1 := mem.ReadFloat64Le(off)
		im, ok2 := mem.ReadFloat64Le(off + 8)
		if !ok1 || !ok2 {
			return errors.New("holomem: wasm memory read out of range")
		}
		cells[i] = complex(re, im)
	}
	return nil
}

func (b *WASMBackend) writeFloats(vals []float64) (uint32, error) {
	ptr, err := b.allocBytes(uint32(len(vals) * 8))
	if err != nil {
		return 0, err
	}
	mem := b.module.Memory()
	for i, v := range vals {
		if !mem.WriteFloat64Le(ptr+uint32(i*8), v) {
			return 0, errors.New("holomem: wasm memory write out of range")
		}
	}
	return ptr, nil
}
