// Package tflite adapts the TensorFlow Lite C API to the backend
// capability contract. It is the CPU-portable engine, probed after onnx
// during auto-detection.
//
// The adapter compiles only with the 'tflite' build tag; without it the
// package registers nothing.
package tflite
