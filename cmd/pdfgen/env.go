package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-pdfgen"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and the renderer pool factory.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	NewPool func(size int, opts ...pdfgen.Option) (Pool, error)
}

// DefaultEnv returns the production environment: real clock, standard
// streams and browser-backed generators.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newGeneratorPool,
	}
}
