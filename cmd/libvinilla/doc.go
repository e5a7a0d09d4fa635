// Command libvinilla builds the terminal core as a C shared library.
//
//	go build -buildmode=c-shared -o libvinilla.so ./cmd/libvinilla
//
// vinilla.h declares vinilla_change. The library exports:
//
//	uint64_t vinilla_term_new(uint32_t lines, uint32_t columns);
//	vinilla_change *vinilla_term_update(uint64_t term, const uint8_t *data, size_t len, size_t *out_len);
//	void vinilla_changes_free(vinilla_change *changes, size_t len);
//	void vinilla_term_free(uint64_t term);
//
// vinilla_term_new returns 0 when the terminal cannot be created.
// vinilla_term_update returns NULL with *out_len set to 0 when nothing
// changed or the handle is invalid. A non-NULL buffer belongs to the
// library and must be passed back to vinilla_changes_free exactly once;
// releasing it with the caller's own free is undefined.
package main

func main() {}
