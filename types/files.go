package types

import "time"

// ShareEntry is one row of the file catalog: a discoverable file name and
// where it lives on disk. Name is always a base filename, never a path.
type ShareEntry struct {
	Name         string
	AbsolutePath string
}

// FileMetadata is derived from a live stat of a catalog entry.
type FileMetadata struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"type"`
	ModifiedAt time.Time `json:"modified"`
}

// ByteRange is an inclusive byte interval within a file,
// 0 <= Start <= End < file size.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}
