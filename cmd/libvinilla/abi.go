//go:build cgo

package main

/*
#include <stdlib.h>
#include "vinilla.h"
*/
import "C"

import "unsafe"

// change is a vinilla_change copied into Go memory.
type change struct {
	Row       uint32
	Column    uint32
	Codepoint uint32
	Bg        uint16
	Fg        uint16
}

// update is the outcome of one vinilla_term_update call made the way a C
// caller makes it.
type update struct {
	Null    bool
	Len     int
	Changes []change
}

func termNew(lines, columns uint32) uint64 {
	return uint64(vinilla_term_new(C.uint32_t(lines), C.uint32_t(columns)))
}

// termUpdate calls vinilla_term_update, copies the returned buffer and
// releases it through vinilla_changes_free.
func termUpdate(term uint64, data []byte) update {
	var ptr *C.uint8_t
	if len(data) > 0 {
		ptr = (*C.uint8_t)(C.CBytes(data))
		defer C.free(unsafe.Pointer(ptr))
	}

	outLen := C.size_t(999)
	buf := vinilla_term_update(C.uint64_t(term), ptr, C.size_t(len(data)), &outLen)

	u := update{Null: buf == nil, Len: int(outLen)}
	if buf == nil {
		return u
	}
	for _, c := range unsafe.Slice(buf, int(outLen)) {
		u.Changes = append(u.Changes, change{
			Row:       uint32(c.row),
			Column:    uint32(c.column),
			Codepoint: uint32(c.codepoint),
			Bg:        uint16(c.bg),
			Fg:        uint16(c.fg),
		})
	}
	vinilla_changes_free(buf, outLen)
	return u
}

func termFree(term uint64) {
	vinilla_term_free(C.uint64_t(term))
}
