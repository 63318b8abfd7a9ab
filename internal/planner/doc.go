// Package planner holds the per-image decision rule: whether a texture is
// small enough to be upscaled before conversion, and which files each step
// reads and writes. It is pure; nothing here touches the filesystem.
package planner
