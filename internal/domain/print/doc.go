// Package print contains the domain model for the print production pipeline:
// unit-precise geometry (mm/pixel/point at controlled DPI), the simplified
// RGB/CMYK color model used for gamut warnings, the drawable page scene,
// spread and cover composition rules, the print-quality rule engine, and the
// provider-neutral order lifecycle.
//
// Everything in this package is pure: no I/O, no globals, safe for concurrent
// use across pages of the same job. Rendering and provider communication live
// in the infrastructure layer.
package print
