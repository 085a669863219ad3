package ingest

// Candidate is one document found under a batch root.
type Candidate struct {
	Path    string
	Ext     string
	Size    int64
	HashHex string
	// Duplicate is set when an earlier candidate had the same content; DuplicateOf names it.
	Duplicate   bool
	DuplicateOf string
	Err         string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Duplicates uint32
	Failed     uint32
}
