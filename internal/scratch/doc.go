// Package scratch manages hygiene of the working directories: a background
// janitor removes uploads and converted outputs that outlive their welcome.
package scratch
