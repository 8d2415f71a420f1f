/*
DESCRIPTION
  file.go implements the filename reader: on the host, the capture
  pipeline resolves the path of the bitmap standing in for a captured
  frame through a Reader built from a small key-value configuration
  file, grounded on frd/frd.c of the original source and on the
  sequence/filelist/constant reader kinds documented in spec.md §6.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frd implements the host-only filename reader the capture
// pipeline uses to resolve which disk image stands in for a captured
// frame on each simulation tick.
package frd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/leanxcam/oscar/framework"
)

// Reader resolves the filename to load for the given simulation tick.
type Reader interface {
	Next(tick uint64) (string, error)
}

// config keys, per spec.md §6.
const (
	keyReaderType  = "READER_TYPE"
	keyPrefix      = "FILENAME_PREFIX"
	keySeqDigits   = "FILENAME_SEQ_NR_DIGITS"
	keySuffix      = "FILENAME_SUFFIX"
	keyList        = "FILENAME_LIST"
	keyConstant    = "FILENAME"
	kindSequence   = "FRD_SEQUENCE_READER"
	kindFilelist   = "FRD_FILELIST_READER"
	kindConstant   = "FRD_CONSTANT_READER"
)

// SequenceReader emits prefix + zero-padded(tick, digits) + suffix.
type SequenceReader struct {
	Prefix string
	Digits int
	Suffix string
}

func (r *SequenceReader) Next(tick uint64) (string, error) {
	return fmt.Sprintf("%s%0*d%s", r.Prefix, r.Digits, tick, r.Suffix), nil
}

// FilelistReader reads one filename per simulation tick from a
// preloaded list, advancing regardless of which tick value is passed
// in, matching the original's sequential-consumption behaviour.
type FilelistReader struct {
	mu    sync.Mutex
	names []string
	next  int
}

// NewFilelistReader reads path, one filename per non-blank line.
func NewFilelistReader(path string) (*FilelistReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, framework.New("frd", framework.ErrUnableToOpenFile, path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, framework.New("frd", framework.ErrFileParse, path, err)
	}
	return &FilelistReader{names: names}, nil
}

func (r *FilelistReader) Next(tick uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next >= len(r.names) {
		return "", framework.New("frd", framework.ErrNoMatchingPicture, "filelist-exhausted", nil)
	}
	name := r.names[r.next]
	r.next++
	return name, nil
}

// ConstantReader emits the same filename on every tick.
type ConstantReader struct {
	Name string
}

func (r *ConstantReader) Next(tick uint64) (string, error) {
	return r.Name, nil
}

// Load parses a filename-reader configuration file of the format
// documented in spec.md §6 and builds the Reader it describes.
func Load(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, framework.New("frd", framework.ErrUnableToOpenFile, path, err)
	}
	defer f.Close()

	vals := map[string]string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, framework.New("frd", framework.ErrFileParse, line, nil)
		}
		vals[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := sc.Err(); err != nil {
		return nil, framework.New("frd", framework.ErrFileParse, path, err)
	}

	switch vals[keyReaderType] {
	case kindSequence:
		digits, err := strconv.Atoi(vals[keySeqDigits])
		if err != nil {
			return nil, framework.New("frd", framework.ErrFileParse, keySeqDigits, err)
		}
		return &SequenceReader{Prefix: vals[keyPrefix], Digits: digits, Suffix: vals[keySuffix]}, nil
	case kindFilelist:
		return NewFilelistReader(vals[keyList])
	case kindConstant:
		return &ConstantReader{Name: vals[keyConstant]}, nil
	default:
		return nil, framework.New("frd", framework.ErrFileParse, keyReaderType, nil)
	}
}
