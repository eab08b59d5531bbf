package transfer

import (
	"strconv"
	"strings"

	"github.com/moyoez/qrshare-go/types"
)

// DefaultMaxRangeSpecs caps how many comma-separated range specifications
// one header may carry before the whole header is ignored.
const DefaultMaxRangeSpecs = 5

// ParseRange parses an HTTP Range header against a known file size and
// returns the accepted byte ranges. A nil result means "serve the full
// content": the header was absent, malformed, carried only invalid specs,
// or exceeded maxSpecs. Individual malformed specs are skipped, they do
// not poison the rest of the header.
func ParseRange(header string, fileSize int64, maxSpecs int) []types.ByteRange {
	if maxSpecs <= 0 {
		maxSpecs = DefaultMaxRangeSpecs
	}
	if fileSize <= 0 {
		return nil
	}
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "bytes=") {
		return nil
	}
	specs := strings.Split(strings.TrimPrefix(header, "bytes="), ",")
	if len(specs) > maxSpecs {
		return nil
	}

	var ranges []types.ByteRange
	for _, spec := range specs {
		if r, ok := parseSpec(strings.TrimSpace(spec), fileSize); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

func parseSpec(spec string, fileSize int64) (types.ByteRange, bool) {
	idx := strings.Index(spec, "-")
	if idx < 0 {
		return types.ByteRange{}, false
	}
	startStr, endStr := spec[:idx], spec[idx+1:]

	switch {
	case startStr == "" && endStr != "":
		// "-N": last N bytes, invalid when N <= 0.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return types.ByteRange{}, false
		}
		start := fileSize - n
		if start < 0 {
			start = 0
		}
		return clamp(types.ByteRange{Start: start, End: fileSize - 1}, fileSize)

	case startStr != "" && endStr == "":
		// "N-": from N to the end.
		start, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return types.ByteRange{}, false
		}
		return clamp(types.ByteRange{Start: start, End: fileSize - 1}, fileSize)

	case startStr != "" && endStr != "":
		start, err1 := strconv.ParseInt(startStr, 10, 64)
		end, err2 := strconv.ParseInt(endStr, 10, 64)
		if err1 != nil || err2 != nil || start < 0 || end < start || end >= fileSize {
			return types.ByteRange{}, false
		}
		return clamp(types.ByteRange{Start: start, End: end}, fileSize)
	}
	return types.ByteRange{}, false
}

func clamp(r types.ByteRange, fileSize int64) (types.ByteRange, bool) {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > fileSize-1 {
		r.End = fileSize - 1
	}
	if r.Start > r.End {
		return types.ByteRange{}, false
	}
	return r, true
}
