// Package onnx adapts ONNX Runtime to the backend capability contract.
// It is the preferred engine: ORT dispatches to CUDA, ROCm or plain CPU
// execution providers on its own, so one adapter covers every GPU vendor.
//
// The adapter compiles only with the 'onnx' build tag, mirroring how the
// vendor shim compiled engines in or out. Without the tag the package
// registers nothing and explicit "onnx" selection falls back to
// auto-detection.
package onnx
