// Package editorlog locates the Unity Editor.log file and extracts the
// compiler output of the most recent compilation from it.
package editorlog
