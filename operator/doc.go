// Package operator implements spectral operator layers and Koopman latent
// dynamics for advancing sampled PDE fields in time.
//
// The building blocks are pure forward computations over immutable values:
//   - SpectralConv1D / SpectralConv2D: truncated-Fourier convolution layers
//   - FNO1D / FNO2D: stacked spectral layers with pointwise residual mixing
//   - FourierEncoder / DenseEncoder (and decoders): field <-> latent mappings
//   - DensePropagator / DiagonalPropagator: linear recurrent latent advance
//   - Batched: parameter-sharing application across a leading batch axis
//
// Parameters are built eagerly at construction and never mutated by a forward
// pass. All entry points return freshly allocated outputs; the same parameters
// and input always produce the same output.
package operator
