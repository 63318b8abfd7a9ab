package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt interactively asks for the mod directory, threshold and scale
// factor. Pressing Enter keeps the current value. Used when no mod directory
// was given on the command line and stdin is a terminal.
func Prompt(cfg *Config, in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)

	for cfg.TargetDir == "" {
		fmt.Fprintln(out, "What is your mod folder?")
		fmt.Fprintln(out, "  (usually your RimWorld workshop content directory)")
		line, err := readLine(r, out, "> ")
		if err != nil {
			return err
		}
		cfg.TargetDir = NormalizeDirArg(strings.Trim(line, `"'`))
	}

	fmt.Fprintln(out, "Upscale only if texture is smaller than")
	fmt.Fprintln(out, "  (higher means sharper but slower in game; 128 or 256 is usually enough)")
	n, err := promptEnum(r, out, Thresholds, cfg.Threshold, "threshold")
	if err != nil {
		return err
	}
	cfg.Threshold = n

	fmt.Fprintln(out, "Upscale factor")
	fmt.Fprintln(out, "  (2x is what most players need)")
	n, err = promptEnum(r, out, ScaleFactors, cfg.UpscaleFactor, "scale factor")
	if err != nil {
		return err
	}
	cfg.UpscaleFactor = n
	return nil
}

// promptEnum re-asks until the answer is empty (keep current) or one of set.
func promptEnum(r *bufio.Reader, out io.Writer, set []int, current int, name string) (int, error) {
	for {
		line, err := readLine(r, out, fmt.Sprintf("[%s] (default %d) > ", joinInts(set), current))
		if err != nil {
			return 0, err
		}
		if line == "" {
			return current, nil
		}
		n, err := ParseEnumInt(line, set, name)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		return n, nil
	}
}

// readLine prints label and reads one trimmed line. EOF with no input is an
// error so a closed stdin doesn't loop forever.
func readLine(r *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
