package uci

import (
	"bytes"
	"os/exec"

	"github.com/lgbarn/swapchess-go/internal/config"
)

// WASMHeader is the smallest valid WebAssembly module: the "\0asm" magic
// followed by version 1.
var WASMHeader = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// Validator reports whether a WebAssembly module can be run here.
type Validator func(module []byte) bool

// Variant is the engine build chosen for a session.
type Variant struct {
	Name string   // "wasm" or "native"
	Argv []string // Command line that starts the engine
	WASM bool
}

// ValidHeader reports whether module starts with the WebAssembly header.
func ValidHeader(module []byte) bool {
	return len(module) >= len(WASMHeader) && bytes.Equal(module[:len(WASMHeader)], WASMHeader)
}

// RuntimeValidator accepts a module when its header is valid and runner is
// on PATH.
func RuntimeValidator(runner string) Validator {
	return func(module []byte) bool {
		if !ValidHeader(module) || runner == "" {
			return false
		}
		_, err := exec.LookPath(runner)
		return err == nil
	}
}

// SelectVariant picks the WebAssembly build when cfg.WASMPath is set and
// validate accepts WASMHeader, and the plain executable otherwise. Without
// a WASMPath there is no module to run, so a passing header check still
// selects the plain executable. A nil validate uses
// RuntimeValidator(cfg.WASMRunner).
func SelectVariant(cfg config.EngineConfig, validate Validator) Variant {
	if validate == nil {
		validate = RuntimeValidator(cfg.WASMRunner)
	}
	if cfg.WASMPath != "" && validate(WASMHeader) {
		return Variant{Name: "wasm", Argv: []string{cfg.WASMRunner, cfg.WASMPath}, WASM: true}
	}
	return Variant{Name: "native", Argv: []string{cfg.Path}}
}
