// Package textutil derives filesystem-safe identifiers and display titles from
// free-form names.
package textutil
