// Package ocr defines the OCR collaborator used by alignment and prepares page
// photos for recognition.
//
// Photos are decoded from PNG, JPEG, GIF, WebP, TIFF or BMP, converted to
// grayscale, upscaled when they are narrower than a configured width, and
// re-encoded as PNG before they reach an Engine. The tesseract subpackage
// provides the default Engine.
package ocr
