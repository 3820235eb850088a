package util

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxOffset bounds the row offset so (page-1)*size never overflows.
	MaxOffset = math.MaxInt32
)

func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func normalizeSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// MaxPage is the last page whose offset stays within MaxOffset.
func MaxPage(size int) int {
	return MaxOffset/normalizeSize(size) + 1
}

// Calculate turns a 1-based page and a page size into offset and limit.
// Pages past MaxPage are clamped to it.
func Calculate(page, size int) (offset, limit int) {
	size = normalizeSize(size)
	if page < 1 {
		page = 1
	}
	if mp := MaxPage(size); page > mp {
		page = mp
	}
	return (page - 1) * size, size
}
