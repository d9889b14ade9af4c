// Package file provides file-based configuration and prompt storage.
// Configuration lives in a TOML file under ~/.pssst/, prompts in
// user-editable text files under ~/.pssst/prompts/.
package file
