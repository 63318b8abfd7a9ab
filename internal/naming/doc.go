// Package naming derives the file names used by the safe-replace protocol
// and guards against two sources converging on the same output file.
//
// For a source <dir>/<stem>.<ext>:
//
//	intermediate  <dir>/<stem>.<ext>.upscaled.png
//	converted     <dir>/<stem>.<ext>.upscaled.dds   (converter output, small files)
//	final         <dir>/<stem>.dds
package naming
