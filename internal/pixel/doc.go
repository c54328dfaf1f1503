// Package pixel provides the color model shared by every editing engine.
//
// A canvas stores its pixels in one of two representations:
//   - DirectColor: one packed 32-bit RGBA value per pixel
//   - Indexed: one 8-bit palette index per pixel
//
// # Packing
//
// Colors are packed as R<<24 | G<<16 | B<<8 | A. The zero value 0x00000000 is
// fully transparent black and is what every "transparent" fill uses in
// DirectColor mode. Alpha is non-premultiplied.
//
// # Buffers
//
// Pixels is a closed tagged variant over Direct ([]uint32) and Indexed
// ([]uint8). Engines are written once against the Value constraint and the
// orchestrator dispatches on the concrete type with a type switch.
//
// Buffers are treated as immutable once published: a mutation allocates a new
// buffer and reports changed=true, or returns the input buffer with
// changed=false.
package pixel
