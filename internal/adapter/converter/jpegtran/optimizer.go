// Package jpegtran rewrites JPEGs losslessly through the libjpeg jpegtran tool.
package jpegtran

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/bnema/galerie/internal/port"
)

// markerSOF2 starts the frame header of a progressive DCT image.
const markerSOF2 = 0xC2

type Optimizer struct {
	binary string
}

// NewOptimizer returns an optimizer driving binary. An empty binary resolves
// jpegtran on $PATH.
func NewOptimizer(binary string) *Optimizer {
	if binary == "" {
		binary = "jpegtran"
	}
	return &Optimizer{binary: binary}
}

func (o *Optimizer) Available() error {
	if _, err := exec.LookPath(o.binary); err != nil {
		return fmt.Errorf("jpegtran not found: %w", err)
	}
	return nil
}

// Progressive reorders the DCT scans of data for progressive display and
// optimizes its Huffman tables. Pixels are untouched and metadata is dropped.
func (o *Optimizer) Progressive(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("jpegtran: empty input")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.binary, "-copy", "none", "-optimize", "-progressive")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("jpegtran failed: %w, stderr: %s", err, stderr.String())
	}
	if !IsProgressive(stdout.Bytes()) {
		return nil, errors.New("jpegtran: output is not progressive")
	}
	return stdout.Bytes(), nil
}

// IsProgressive reports whether data carries a progressive frame header
// before its first scan.
func IsProgressive(data []byte) bool {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return false
	}
	for i := 2; i+4 <= len(data); {
		if data[i] != 0xFF {
			return false
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			i++
			continue
		case marker == markerSOF2:
			return true
		case marker == 0xDA, marker == 0xD9:
			return false
		case marker >= 0xD0 && marker <= 0xD7, marker == 0x01:
			i += 2
			continue
		}
		length := int(data[i+2])<<8 | int(data[i+3])
		if length < 2 {
			return false
		}
		i += 2 + length
	}
	return false
}

var _ port.JPEGOptimizer = (*Optimizer)(nil)
