// Package tools runs the external upscaler and texture converter.
//
// The pipeline depends only on the [Runner] interface; [ExecRunner] is the
// os/exec implementation and tests substitute a fake that records calls and
// writes the files the real tools would write.
//
// Contracts:
//
//	upscaler  -i <input> -o <output> -n <noise> -s <scale> -m <model>
//	converter -y -o <output-dir> <input>   (writes <input-stem>.dds)
package tools
