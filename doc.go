// Package chromakey provides a pure-Go chroma-key compositor for decoded video frames.
//
// The core is stateless per frame: ComputeMask turns a foreground frame into an alpha mask
// using a color distance to the key, and Composite suppresses key spill, applies per-layer
// tone adjustments and blends foreground over background. Pipeline drives both over a
// frame sequence on a bounded worker pool, keeping output in frame order.
// Decoding, encoding and file access live outside of this package.
package chromakey
