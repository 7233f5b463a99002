// Package file provides file-based implementations of driven port interfaces.
// These adapters read data from the local filesystem.
//
// Adapters:
//   - LoadSettings: typed TOML configuration loading
//   - PromptStore: user-editable LLM prompt templates
package file
