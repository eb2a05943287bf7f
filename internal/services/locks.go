package services

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// PostLocks serializes in-process mutations per post identifier. Likes and
// comments are read-modify-write against the whole post document, so two
// concurrent mutators on the same post must not interleave between the read
// and the write-back.
type PostLocks struct {
	stripes [lockStripes]sync.Mutex
}

// NewPostLocks creates a new PostLocks
func NewPostLocks() *PostLocks {
	return &PostLocks{}
}

// Get returns the mutex guarding the given post ID.
func (l *PostLocks) Get(postID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(postID))
	return &l.stripes[h.Sum32()%lockStripes]
}
