// Package wasm provides the WebAssembly binary primitives used by the
// section metadata bridge.
//
// # Section Scanning
//
// ScanSections reads the header of every section in a module without
// decoding section bodies:
//
//	data, _ := os.ReadFile("module.wasm")
//	headers, err := wasm.ScanSections(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range headers {
//	    fmt.Printf("%-8s @%d size %d end %d\n", h.Name, h.Offset, h.Size, h.End())
//	}
//
// Offset is the position of the section's size field, so the id byte sits
// at Offset-1. SizeWidth and VectorWidth hold the encoded LEB128 widths of
// the size and of the leading vector length.
//
// # Section Names
//
// SectionName and SectionID convert between binary ids and the names used
// by the text tooling ("type", "func", "code", ...).
//
// # LEB128 Encoding
//
// The package provides unsigned 32-bit LEB128 utilities:
//
//	n, err := wasm.ReadLEB128u(r)      // decode from an io.ByteReader
//	b := wasm.EncodeLEB128u(624485)    // []byte{0xe5, 0x8e, 0x26}
//	w := wasm.SizeLEB128u(624485)      // 3
package wasm
