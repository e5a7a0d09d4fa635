//go:build cgo

package main

/*
#include <stdlib.h>
#include "vinilla.h"
*/
import "C"

import (
	"log/slog"
	"os"
	"unsafe"

	"github.com/dshills/vinilla/internal/boundary"
)

var (
	logger   = libraryLogger()
	registry = boundary.NewRegistry(boundary.WithLogger(logger))
)

// libraryLogger logs to stderr at debug level when VINILLA_DEBUG is set and
// discards everything otherwise.
func libraryLogger() *slog.Logger {
	if os.Getenv("VINILLA_DEBUG") == "" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// guard keeps a Go panic from unwinding into the C caller.
func guard(name string) {
	if r := recover(); r != nil {
		logger.Error("panic at boundary", slog.String("func", name), slog.Any("panic", r))
	}
}

//export vinilla_term_new
func vinilla_term_new(lines, columns C.uint32_t) (h C.uint64_t) {
	defer guard("vinilla_term_new")
	return C.uint64_t(registry.Create(int(lines), int(columns)))
}

//export vinilla_term_update
func vinilla_term_update(term C.uint64_t, data *C.uint8_t, n C.size_t, outLen *C.size_t) (out *C.vinilla_change) {
	defer guard("vinilla_term_update")
	if outLen != nil {
		*outLen = 0
	}

	var input []byte
	if data != nil && n > 0 {
		input = unsafe.Slice((*byte)(unsafe.Pointer(data)), int(n))
	}

	entries, err := registry.Update(boundary.Handle(term), input)
	if err != nil || len(entries) == 0 {
		return nil
	}

	size := C.size_t(len(entries)) * C.size_t(unsafe.Sizeof(C.vinilla_change{}))
	buf := (*C.vinilla_change)(C.malloc(size))
	if buf == nil {
		return nil
	}
	dst := unsafe.Slice(buf, len(entries))
	for i, e := range entries {
		dst[i] = C.vinilla_change{
			row:       C.uint32_t(e.Row),
			column:    C.uint32_t(e.Column),
			codepoint: C.uint32_t(e.Codepoint),
			bg:        C.uint16_t(e.Bg),
			fg:        C.uint16_t(e.Fg),
		}
	}

	if outLen != nil {
		*outLen = C.size_t(len(entries))
	}
	return buf
}

//export vinilla_changes_free
func vinilla_changes_free(changes *C.vinilla_change, n C.size_t) {
	defer guard("vinilla_changes_free")
	if changes == nil {
		return
	}
	C.free(unsafe.Pointer(changes))
}

//export vinilla_term_free
func vinilla_term_free(term C.uint64_t) {
	defer guard("vinilla_term_free")
	_ = registry.Destroy(boundary.Handle(term))
}
