// Package audio decodes raw PCM speech payloads into per-channel sample
// buffers and plays them back through oto/v3.
package audio
