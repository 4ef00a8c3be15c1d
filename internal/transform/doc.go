// Package transform holds the lowering-time queries that depend on type
// information. The receiver-convention classifier decides, for a call target
// or declaration, whether the lowered function takes its calling object as an
// implicit first argument (method-shaped) or only its explicit arguments
// (callback-shaped).
package transform
